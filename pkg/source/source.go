// Package source reads season exports into tables. Exports arrive as csv
// (optionally brotli or gzip compressed), as xlsx workbooks or as an html
// page holding a table, either on disk or behind a url.
package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/richard-senior/gamecomp/pkg/transport"
	"github.com/xuri/excelize/v2"
)

// Format is the layout of an export
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// IsURL reports whether location should be fetched rather than opened
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// DetectFormat guesses the export layout from a file name and, failing
// that, a content type. A trailing .br or .gz is looked through.
func DetectFormat(name, contentType string) (format Format, encoding string) {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch filepath.Ext(name) {
	case ".br":
		encoding, name = "br", strings.TrimSuffix(name, ".br")
	case ".gz":
		encoding, name = "gzip", strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, encoding
	case ".xlsx", ".xlsm":
		return FormatXLSX, encoding
	case ".html", ".htm":
		return FormatHTML, encoding
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "csv"), strings.HasPrefix(ct, "text/plain"):
		return FormatCSV, encoding
	case strings.Contains(ct, "spreadsheetml"):
		return FormatXLSX, encoding
	case strings.Contains(ct, "html"):
		return FormatHTML, encoding
	}
	return FormatUnknown, encoding
}

// Load reads the export at location, a path or an http(s) url
func Load(ctx context.Context, location string) (*table.Table, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	if IsURL(location) {
		data, contentType, err = transport.Fetch(ctx, location)
	} else {
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}

	format, encoding := DetectFormat(location, contentType)
	if format == FormatUnknown {
		return nil, fmt.Errorf("cannot tell the format of %s", location)
	}
	tbl, err := Parse(format, encoding, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	logger.Info("Loaded", location, "as", format.String()+":", tbl.Len(), "rows", tbl.Width(), "columns")
	return tbl, nil
}

// Parse reads an export of the given format, first undoing encoding
// ("br", "gzip" or empty)
func Parse(format Format, encoding string, r io.Reader) (*table.Table, error) {
	rc, err := transport.Decode(encoding, io.NopCloser(r))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var header []string
	var records [][]string
	switch format {
	case FormatCSV:
		header, records, err = ReadCSV(rc)
	case FormatXLSX:
		header, records, err = ReadXLSX(rc)
	case FormatHTML:
		header, records, err = ReadHTML(rc)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}
	return table.FromRecords(header, records)
}

// sniffDelimiter picks whichever of comma, semicolon or tab occurs most in
// the header line
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ReadCSV returns the header and data records of a delimited export
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv has no header row")
	}
	return padHeader(records[0], records[1:]), records[1:], nil
}

// ReadXLSX returns the header and data rows of the first sheet of a workbook
func ReadXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	return padHeader(rows[0], rows[1:]), rows[1:], nil
}

// ReadHTML returns the header and data rows of the first table on a page
func ReadHTML(r io.Reader) ([]string, [][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse html: %w", err)
	}
	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, nil, fmt.Errorf("page has no table")
	}

	var rows [][]string
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("table has no rows")
	}
	return padHeader(rows[0], rows[1:]), rows[1:], nil
}

// padHeader widens header with blank names to fit the widest record, since
// spreadsheets drop trailing empty header cells
func padHeader(header []string, records [][]string) []string {
	width := len(header)
	for _, rec := range records {
		width = max(width, len(rec))
	}
	out := make([]string, width)
	copy(out, header)
	return out
}
