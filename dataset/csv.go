package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/sbfs/errs"
)

// ReadCSV reads a frame from CSV with a header row.
//
// The column named target becomes the target series; columns listed in skip
// (for example a date column) are ignored; every other column is a predictor
// in header order. Empty cells and "NaN"/"NA" read as NaN.
func ReadCSV(r io.Reader, target string, skip ...string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	targetCol := -1
	var names []string
	var predictorCols []int
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == target:
			targetCol = i
		case slices.Contains(skip, h):
		default:
			names = append(names, h)
			predictorCols = append(predictorCols, i)
		}
	}
	if targetCol < 0 {
		return nil, fmt.Errorf("%w: target column %q not in header", errs.ErrUnknownPredictor, target)
	}

	columns := make([][]float64, len(names))
	var y []float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		v, err := parseCell(record[targetCol])
		if err != nil {
			return nil, fmt.Errorf("line %d column %q: %w", line, target, err)
		}
		y = append(y, v)

		for k, col := range predictorCols {
			v, err := parseCell(record[col])
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, names[k], err)
			}
			columns[k] = append(columns[k], v)
		}
	}

	return NewFrame(names, columns, target, y)
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "NAN", "NA", "N/A":
		return math.NaN(), nil
	}

	return strconv.ParseFloat(s, 64)
}
