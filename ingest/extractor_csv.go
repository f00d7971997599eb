package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor renders tabular data as one labeled block per row
// ("Header: value, Header: value") so each row chunks as a standalone
// paragraph and keeps its column context.
type CSVExtractor struct{}

var _ Extractor = CSVExtractor{}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func (CSVExtractor) Extract(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read csv header: %w", err)
	}

	var rows []string
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv row %d: %w", line, err)
		}
		if row := labelRow(header, record); row != "" {
			rows = append(rows, row)
		}
	}
	return strings.Join(rows, "\n\n"), nil
}

// labelRow pairs each field with its header. Fields beyond the header
// width keep their bare value rather than being dropped.
func labelRow(header, record []string) string {
	parts := make([]string, 0, len(record))
	for i, field := range record {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			parts = append(parts, strings.TrimSpace(header[i])+": "+field)
		} else {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, ", ")
}
