package export

import (
	"fmt"
	"io"
	"strings"
)

// Format selects an output renderer.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts json, csv, pdf or xlsx in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string { return "." + string(f) }

// Write renders s to w in format f.
func Write(w io.Writer, f Format, s Snapshot) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatPDF:
		return WritePDF(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	}
	return fmt.Errorf("unknown export format %q", f)
}
