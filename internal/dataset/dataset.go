// Package dataset reads tabular training data and partitions it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/valyala/fastrand"
)

var (
	ErrEmpty       = errors.New("dataset is empty")
	ErrTooFewCols  = errors.New("dataset needs at least one feature and one target column")
	ErrInvalidSize = errors.New("invalid test size")
)

// Frame is a numeric table with named columns.
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// Shape returns rows x columns.
func (f *Frame) Shape() (int, int) {
	return len(f.Rows), len(f.Columns)
}

// ReadCSVFile reads a CSV file with a header row.
func ReadCSVFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses a header row followed by numeric records.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i := range header {
		columns[i] = strings.TrimSpace(header[i])
	}
	if len(columns) < 2 {
		return nil, ErrTooFewCols
	}

	frame := &Frame{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("record %d, column %q: %w", len(frame.Rows)+1, columns[i], err)
			}
			row[i] = v
		}
		frame.Rows = append(frame.Rows, row)
	}

	if len(frame.Rows) == 0 {
		return nil, ErrEmpty
	}
	return frame, nil
}

// XY splits the frame into features (all columns but the last) and target
// (the last column).
func (f *Frame) XY() ([][]float64, []float64) {
	last := len(f.Columns) - 1
	x := make([][]float64, len(f.Rows))
	y := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		x[i] = row[:last]
		y[i] = row[last]
	}
	return x, y
}

// Split holds the train and held-out partitions.
type Split struct {
	XTrain [][]float64
	XTest  [][]float64
	YTrain []float64
	YTest  []float64
}

// TrainTestSplit shuffles rows with a generator seeded by seed and holds out
// ceil(testSize*n) of them. The same seed always yields the same partition.
func TrainTestSplit(x [][]float64, y []float64, testSize float64, seed uint32) (*Split, error) {
	n := len(x)
	if n != len(y) {
		return nil, fmt.Errorf("features and target lengths differ: %d != %d", n, len(y))
	}
	if math.IsNaN(testSize) || testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("%w: %v, expected a value in (0, 1)", ErrInvalidSize, testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, fmt.Errorf("%w: %v leaves an empty partition for %d samples", ErrInvalidSize, testSize, n)
	}

	perm := Permutation(n, seed)
	s := &Split{
		XTrain: make([][]float64, 0, nTrain),
		YTrain: make([]float64, 0, nTrain),
		XTest:  make([][]float64, 0, nTest),
		YTest:  make([]float64, 0, nTest),
	}
	for i, idx := range perm {
		if i < nTest {
			s.XTest = append(s.XTest, x[idx])
			s.YTest = append(s.YTest, y[idx])
			continue
		}
		s.XTrain = append(s.XTrain, x[idx])
		s.YTrain = append(s.YTrain, y[idx])
	}
	return s, nil
}

// Permutation returns a Fisher-Yates shuffle of [0, n).
func Permutation(n int, seed uint32) []int {
	var rng fastrand.RNG
	// the generator reseeds itself from a random source when its state is zero
	if seed == 0 {
		seed = 1
	}
	rng.Seed(seed)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(rng.Uint32n(uint32(i + 1)))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
