package repository

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

const maxLineBytes = 1 << 20

// readRows walks the non-blank lines of a comma separated source one line at
// a time, so a malformed line never spills into the next one. The first
// non-blank line is passed to isHeader; when it reports true the line is
// consumed, otherwise it is handed to row like any other. Lines the csv
// parser rejects reach row with a nil record. An error from row stops the
// walk.
func readRows(src io.Reader, isHeader func(record []string) bool, row func(line int, raw string, record []string) error) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	first := true
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		record, err := splitLine(raw)
		if err == nil && blank(record) {
			continue
		}
		if first {
			first = false
			if err == nil && isHeader(record) {
				continue
			}
		}
		if err != nil {
			record = nil
		}
		if err := row(line, raw, record); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// splitLine parses a single line, honouring quoted fields written by the
// ledger writer.
func splitLine(raw string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.Read()
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
