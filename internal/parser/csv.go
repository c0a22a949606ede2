package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// parseCSV reads frequency, magnitude and optional phase from the first three
// columns. A first row mentioning "frequency" is treated as a header.
func parseCSV(r io.Reader) (models.Sweep, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var sweep models.Sweep
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue // skip malformed rows
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}

		if len(row) < 2 {
			continue
		}

		var phase string
		if len(row) >= 3 {
			phase = row[2]
		}

		if p, ok := newPoint(row[0], row[1], phase); ok {
			sweep = append(sweep, p)
		}
	}

	return sweep, nil
}

func isHeader(row []string) bool {
	return strings.Contains(strings.ToLower(strings.Join(row, ",")), "frequency")
}
