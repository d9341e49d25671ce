// Package csvlog reads videoconference session-log exports. The exports
// come from different locales, so the field delimiter is auto-detected
// among semicolon, tab, and comma, and column headers are resolved through
// the sessionlog alias table.
package csvlog

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/aulatools/conciliador/pkg/errors"
	"github.com/aulatools/conciliador/pkg/sessionlog"
)

// delimiters in detection preference order.
var delimiters = []rune{';', '\t', ','}

// DetectDelimiter picks the delimiter with the most occurrences outside
// quoted sections of the header line. Semicolon wins ties, matching the
// regional exports this tool sees most.
func DetectDelimiter(headerLine string) rune {
	best := delimiters[0]
	bestCount := -1
	for _, d := range delimiters {
		count := 0
		inQuotes := false
		for _, r := range headerLine {
			switch {
			case r == '"':
				inQuotes = !inQuotes
			case r == d && !inQuotes:
				count++
			}
		}
		if count > bestCount {
			best, bestCount = d, count
		}
	}
	return best
}

// Parse reads a session-log export: the first line is the header row, every
// following non-empty line one session entry.
func Parse(r io.Reader) ([]sessionlog.Entry, error) {
	br := bufio.NewReader(r)
	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.WrapParse("csv", "", err)
	}
	headerLine = strings.TrimRight(headerLine, "\r\n")
	if strings.TrimSpace(headerLine) == "" {
		return nil, errors.NewParseError("csv", "", "empty input", nil)
	}

	delim := DetectDelimiter(headerLine)

	headerReader := csv.NewReader(strings.NewReader(headerLine))
	headerReader.Comma = delim
	headerReader.LazyQuotes = true
	headers, err := headerReader.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", "", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.Trim(headers[i], "\uFEFF"))
	}

	body := csv.NewReader(br)
	body.Comma = delim
	body.LazyQuotes = true
	body.FieldsPerRecord = -1

	var entries []sessionlog.Entry
	for {
		record, err := body.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", "", err)
		}
		if isBlank(record) {
			continue
		}
		entries = append(entries, sessionlog.FromRecord(headers, record))
	}
	return entries, nil
}

// Load reads a session-log export from disk.
func Load(path string) ([]sessionlog.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			pe.File = path
		}
		return nil, err
	}
	return entries, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
