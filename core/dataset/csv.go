package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/log"
)

// Label column selectors for CSVOptions.
const (
	// LastColumn selects the right-most column as the label.
	LastColumn = -1
	// NoLabel reads every column as a feature.
	NoLabel = -2
)

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	Delimiter   rune
	Header      bool
	LabelColumn int
}

// DefaultCSVOptions reads comma separated files with a header row and the
// label in the last column.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', Header: true, LabelColumn: LastColumn}
}

// ReadCSV parses delimited text into a Dataset. Cells that parse as numbers
// become float64; everything else stays a string.
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, scierrors.Wrap(err, "failed to read csv")
	}
	if opts.Header && len(records) > 0 {
		records = records[1:]
	}

	samples := make([][]any, len(records))
	var labels []any
	if opts.LabelColumn != NoLabel {
		labels = make([]any, len(records))
	}
	for i, record := range records {
		labelAt := opts.LabelColumn
		if labelAt == LastColumn {
			labelAt = len(record) - 1
		}
		if labels != nil && (labelAt < 0 || labelAt >= len(record)) {
			return nil, scierrors.NewIndexError("ReadCSV", labelAt, len(record), 1)
		}
		row := make([]any, 0, len(record))
		for j, cell := range record {
			v := parseCell(cell)
			if labels != nil && j == labelAt {
				labels[i] = v
				continue
			}
			row = append(row, v)
		}
		samples[i] = row
	}

	log.GetLoggerWithName("dataset").Debug("csv loaded",
		log.SamplesKey, len(samples),
		log.LabeledKey, labels != nil,
	)
	if labels == nil {
		return NewUnlabeled(samples)
	}
	return NewLabeled(samples, labels)
}

func parseCell(cell string) any {
	cell = strings.TrimSpace(cell)
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}
