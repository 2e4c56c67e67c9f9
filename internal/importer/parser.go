package importer

// parser.go turns an uploaded file into annotated rows.
//
// The delimiter is auto-detected from the first line (comma, semicolon,
// or tab). Parsing is a single forward pass: the header is row 1, data
// rows keep their original 1-based file row number for error messages,
// and rows whose cells are all blank are skipped without consuming a
// data slot in the counts.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrParse wraps CSV syntax errors from the underlying reader.
var ErrParse = errors.New("parse CSV")

// utf8BOM is the byte order mark Excel prepends to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParsedFile is the output of ParseFile: the raw header row plus every
// non-blank data row mapped onto canonical fields.
type ParsedFile struct {
	Headers []string
	Columns ColumnMap
	Rows    []*ImportRow
}

// ParseFile parses CSV file data end to end: UTF-8 sanitization,
// delimiter detection, header mapping, and per-row field extraction.
// Header-mapping failures reject the whole file before any data row is
// read.
func ParseFile(data []byte) (*ParsedFile, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	delim := DetectDelimiter(firstLine(data))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := records[0]
	columns, err := MapHeaders(headers)
	if err != nil {
		return nil, err
	}

	pf := &ParsedFile{
		Headers: headers,
		Columns: columns,
	}

	for i, record := range records[1:] {
		rowNum := i + 2 // header is row 1

		if isBlankRow(record) {
			continue
		}

		row := &ImportRow{
			RowNumber: rowNum,
			Raw:       make(map[string]string),
			Fields:    make(map[string]string),
			Status:    RowPending,
		}

		for col, cell := range record {
			field := columns.Field(col)
			if field == "" {
				continue
			}
			val := CleanCell(cell)
			row.Raw[field] = val
			row.Fields[field] = val
		}

		pf.Rows = append(pf.Rows, row)
	}

	return pf, nil
}

// DetectDelimiter picks the delimiter by counting candidates in the
// first line. Comma wins ties and empty input.
func DetectDelimiter(line string) rune {
	best := ','
	bestCount := strings.Count(line, ",")

	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best = c
			bestCount = n
		}
	}

	return best
}

// firstLine returns the first line of data without its line ending.
func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSuffix(string(data), "\r")
}

// isBlankRow reports whether every cell is empty after trimming.
func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD so the CSV
// reader never sees malformed input.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
