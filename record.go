package fairbench

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Error kinds. Only ErrInputNotFound and ErrInvalidConfiguration abort an
// audit run; every other condition is recovered locally with a sentinel
// value and a logged warning.
var (
	// ErrInputNotFound reports a missing or unreadable source file.
	ErrInputNotFound = errors.New("input file not found")

	// ErrInvalidConfiguration reports audit parameters under which the
	// requested draws are impossible. Detected before any sampling begins.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput reports corrupted row data (non-binary labels or
	// predictions, empty or mismatched sequences).
	ErrInvalidInput = errors.New("invalid input")
)

// Record is one classified row: the demographic group it belongs to, the
// binary ground truth, and the binary model output. Records are validated
// at load time and never mutated afterwards.
type Record struct {
	Group      string // value of the configured group field
	Label      int    // ground truth, 0 or 1
	Prediction int    // model output, 0 or 1
}

// Dataset is an ordered sequence of Records. It is loaded once at process
// start and read-only thereafter, so it is safe to share across draws.
type Dataset []Record

// Fixed column names of the input contract. The group column is chosen by
// the caller (for example race_source_value or gender_source_value).
const (
	labelColumn      = "labels"
	predictionColumn = "prediction"
)

// LoadDataset reads a CSV file into a validated Dataset. The file must
// carry a header row naming at least the labels, prediction, and
// groupField columns.
//
// A missing file yields ErrInputNotFound. Rows whose label or prediction
// is not 0 or 1 yield ErrInvalidInput rather than propagating a corrupted
// confusion matrix downstream.
func LoadDataset(path, groupField string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadDataset(f, groupField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset parses CSV content from r. See LoadDataset.
func ReadDataset(r io.Reader, groupField string) (Dataset, error) {
	if groupField == "" {
		return nil, fmt.Errorf("%w: group field name is empty", ErrInvalidConfiguration)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidInput)
	}

	header := rows[0]
	labelIdx, err := columnIndex(header, labelColumn)
	if err != nil {
		return nil, err
	}
	predIdx, err := columnIndex(header, predictionColumn)
	if err != nil {
		return nil, err
	}
	groupIdx, err := columnIndex(header, groupField)
	if err != nil {
		return nil, err
	}

	ds := make(Dataset, 0, len(rows)-1)
	for i, row := range rows[1:] {
		label, err := parseBinary(row[labelIdx], labelColumn, i+2)
		if err != nil {
			return nil, err
		}
		pred, err := parseBinary(row[predIdx], predictionColumn, i+2)
		if err != nil {
			return nil, err
		}
		ds = append(ds, Record{
			Group:      strings.TrimSpace(row[groupIdx]),
			Label:      label,
			Prediction: pred,
		})
	}
	return ds, nil
}

// columnIndex finds a named column in the header row.
func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: column %q not found in header %v", ErrInvalidInput, name, header)
}

// parseBinary parses a 0/1 cell value. Line numbers are 1-based and
// include the header, matching what a user sees in their editor.
func parseBinary(value, column string, line int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || (v != 0 && v != 1) {
		return 0, fmt.Errorf("%w: column %q line %d: %q is not a binary 0/1 value",
			ErrInvalidInput, column, line, value)
	}
	return v, nil
}
