package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/mystats/internal/stats"
)

const bom = "\ufeff"

// ParseTable tokenizes a fetched sheet. Bodies that look like HTML are read
// as a published-sheet table, everything else as CSV.
func ParseTable(text string) ([]stats.RawRow, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(text, bom))
	if strings.HasPrefix(trimmed, "<") {
		return ParseHTMLTable(trimmed)
	}
	return ParseCSV(trimmed)
}

// ParseCSV reads a CSV sheet with a header row. Short rows are padded with
// empty cells and blank rows are dropped.
func ParseCSV(text string) ([]stats.RawRow, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, bom)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []stats.RawRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	rows := make([]stats.RawRow, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if row, ok := makeRow(header, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseHTMLTable reads the first table of a published sheet. Row-number and
// column-letter header cells (th) are ignored; the first row with any
// non-empty data cell is the header.
func ParseHTMLTable(html string) ([]stats.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no table found in HTML")
	}

	var header []string
	rows := make([]stats.RawRow, 0)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if header == nil {
			if !allBlank(cells) {
				header = cells
			}
			return
		}
		if row, ok := makeRow(header, cells); ok {
			rows = append(rows, row)
		}
	})
	return rows, nil
}

func makeRow(header, cells []string) (stats.RawRow, bool) {
	if allBlank(cells) {
		return nil, false
	}
	row := make(stats.RawRow, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if i < len(cells) {
			row[h] = cells[i]
		} else {
			row[h] = ""
		}
	}
	return row, true
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
