// Package export renders tabular data as downloadable CSV or PDF files.
package export

import (
	"fmt"
	"strings"
)

// Format is a supported file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat validates raw; an empty value selects CSV.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Table is a header row plus records of the same width.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Render encodes table in format and names the file base.<ext>.
func Render(format Format, base string, table Table) (*File, error) {
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("export requires at least one header")
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = renderCSV(table)
	case FormatPDF:
		data, err = renderPDF(table)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &File{Name: base + "." + string(format), ContentType: format.ContentType(), Data: data}, nil
}
