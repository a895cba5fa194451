// Command perft counts legal move tree leaves from a position, used to
// validate the move generator against published node counts.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chessposcore/chessboard/internal/board"
	"github.com/chessposcore/chessboard/internal/nnue"
)

var (
	fen        = flag.String("fen", board.StartFEN, "FEN of the position to search")
	depth      = flag.Int("depth", 5, "perft depth")
	divide     = flag.Bool("divide", false, "print per-root-move leaf counts")
	cpuprofile = flag.Bool("cpuprofile", false, "write a cpu.pprof profile of the run")
	verbose    = flag.Bool("v", false, "enable debug logging")
	evalDir    = flag.String("eval", "", "directory of NNUE weight CSVs; attaches an accumulator and prints eval before/after the perft run")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *cpuprofile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		color.Red("invalid FEN %q: %v", *fen, err)
		os.Exit(1)
	}
	log.Debug().Str("fen", *fen).Int("depth", *depth).Msg("starting perft")

	var evaluator *nnue.Evaluator
	if *evalDir != "" {
		evaluator, err = nnue.NewEvaluator(*evalDir)
		if err != nil {
			color.Red("loading nnue weights from %q: %v", *evalDir, err)
			os.Exit(1)
		}
		pos.AttachAccumulator(evaluator)
		evaluator.Refresh(pos)
		score, err := evaluator.Evaluate(pos)
		if err != nil {
			color.Red("nnue evaluate: %v", err)
			os.Exit(1)
		}
		color.Cyan("nnue eval before search: %d cp", score)
	}

	start := time.Now()

	if *divide {
		entries := board.PerftDivide(pos, *depth)
		var total uint64
		for _, e := range entries {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			total += e.Nodes
		}
		elapsed := time.Since(start)
		color.Cyan("total %d nodes in %s (%.0f nps)", total, elapsed, float64(total)/elapsed.Seconds())
	} else {
		nodes := board.Perft(pos, *depth)
		elapsed := time.Since(start)

		color.Green("perft(%d) = %d", *depth, nodes)
		color.Cyan("%s elapsed, %.0f nodes/sec", elapsed, float64(nodes)/elapsed.Seconds())
	}

	if evaluator != nil {
		// board.Perft fully unwinds every make/unmake pair, so the attached
		// accumulator should be byte-identical to its pre-search state.
		score, err := evaluator.Evaluate(pos)
		if err != nil {
			color.Red("nnue evaluate: %v", err)
			os.Exit(1)
		}
		color.Cyan("nnue eval after search: %d cp", score)
	}
}
