package nnue

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Weight directory layout: five text files, rows of comma-separated int8
// values, per the model's external export format.
const (
	fileL1Weights = "l1_weights.csv"
	fileL1Bias    = "l1_bias.csv"
	fileL2Weights = "l2_weights.csv"
	fileL2Bias    = "l2_bias.csv"
	fileOutput    = "output.csv"
)

// LoadWeights loads network weights from a directory of CSV files.
func (n *Network) LoadWeights(dir string) error {
	log.Debug().Str("dir", dir).Msg("loading nnue weights")

	if err := loadCSVRows(filepath.Join(dir, fileL1Weights), HalfKPSize, L1Size, func(row, col int, v int64) {
		n.L1Weights[row][col] = int16(v)
	}); err != nil {
		return fmt.Errorf("loading l1 weights: %w", err)
	}

	if err := loadCSVFlat(filepath.Join(dir, fileL1Bias), L1Size, func(i int, v int64) {
		n.L1Bias[i] = int16(v)
	}); err != nil {
		return fmt.Errorf("loading l1 bias: %w", err)
	}

	if err := loadCSVRows(filepath.Join(dir, fileL2Weights), L1Size*2, L2Size, func(row, col int, v int64) {
		n.L2Weights[row][col] = int8(v)
	}); err != nil {
		return fmt.Errorf("loading l2 weights: %w", err)
	}

	if err := loadCSVFlat(filepath.Join(dir, fileL2Bias), L2Size, func(i int, v int64) {
		n.L2Bias[i] = int32(v)
	}); err != nil {
		return fmt.Errorf("loading l2 bias: %w", err)
	}

	outRow := make([]int64, 0, L2Size+1)
	if err := loadCSVFlat(filepath.Join(dir, fileOutput), L2Size+1, func(i int, v int64) {
		outRow = append(outRow, v)
	}); err != nil {
		return fmt.Errorf("loading output layer: %w", err)
	}
	for i := 0; i < L2Size; i++ {
		n.OutputWeights[i] = int8(outRow[i])
	}
	n.OutputBias = int32(outRow[L2Size])

	log.Info().
		Int("halfKPSize", HalfKPSize).
		Int("l1Size", L1Size).
		Int("l2Size", L2Size).
		Msg("nnue weights loaded")
	return nil
}

// SaveWeights writes network weights to dir as the same five CSV files
// LoadWeights expects.
func (n *Network) SaveWeights(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating weights dir: %w", err)
	}

	l1Rows := make([][]string, HalfKPSize)
	for i := 0; i < HalfKPSize; i++ {
		l1Rows[i] = int16RowToStrings(n.L1Weights[i][:])
	}
	if err := writeCSV(filepath.Join(dir, fileL1Weights), l1Rows); err != nil {
		return fmt.Errorf("writing l1 weights: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, fileL1Bias), [][]string{int16RowToStrings(n.L1Bias[:])}); err != nil {
		return fmt.Errorf("writing l1 bias: %w", err)
	}

	l2Rows := make([][]string, L1Size*2)
	for i := 0; i < L1Size*2; i++ {
		l2Rows[i] = int8RowToStrings(n.L2Weights[i][:])
	}
	if err := writeCSV(filepath.Join(dir, fileL2Weights), l2Rows); err != nil {
		return fmt.Errorf("writing l2 weights: %w", err)
	}

	l2BiasRow := make([]string, L2Size)
	for i, v := range n.L2Bias {
		l2BiasRow[i] = strconv.FormatInt(int64(v), 10)
	}
	if err := writeCSV(filepath.Join(dir, fileL2Bias), [][]string{l2BiasRow}); err != nil {
		return fmt.Errorf("writing l2 bias: %w", err)
	}

	outRow := append(int8RowToStrings(n.OutputWeights[:]), strconv.FormatInt(int64(n.OutputBias), 10))
	if err := writeCSV(filepath.Join(dir, fileOutput), [][]string{outRow}); err != nil {
		return fmt.Errorf("writing output layer: %w", err)
	}

	return nil
}

func int16RowToStrings(row []int16) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strconv.FormatInt(int64(v), 10)
	}
	return out
}

func int8RowToStrings(row []int8) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strconv.FormatInt(int64(v), 10)
	}
	return out
}

// loadCSVRows reads wantRows rows of wantCols comma-separated integers each,
// invoking set(row, col, value) per cell.
func loadCSVRows(path string, wantRows, wantCols int, set func(row, col int, v int64)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	for row := 0; row < wantRows; row++ {
		record, err := r.Read()
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		if len(record) != wantCols {
			return fmt.Errorf("row %d: expected %d columns, got %d", row, wantCols, len(record))
		}
		for col, field := range record {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			set(row, col, v)
		}
	}
	return nil
}

// loadCSVFlat reads a single row of wantCols comma-separated integers.
func loadCSVFlat(path string, wantCols int, set func(i int, v int64)) error {
	return loadCSVRows(path, 1, wantCols, func(_, col int, v int64) { set(col, v) })
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
