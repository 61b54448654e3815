package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF renders boards into a landscape PDF, one page per board.
func RenderPDF(boards ...Board) ([]byte, error) {
	if len(boards) == 0 {
		return nil, fmt.Errorf("pdf requires at least one board")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	for _, b := range boards {
		if len(b.Headers) == 0 {
			return nil, fmt.Errorf("board %q has no headers", b.Title)
		}
		pdf.AddPage()
		if b.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, b.Title, "", 1, "C", false, 0, "")
			pdf.Ln(3)
		}
		colWidth := 277.0 / float64(len(b.Headers))
		fontSize := 9.0
		if len(b.Headers) > 8 {
			fontSize = 6
		}
		pdf.SetFont("Arial", "B", fontSize)
		for _, h := range b.Headers {
			pdf.CellFormat(colWidth, 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", fontSize)
		for _, row := range b.Rows {
			for i := range b.Headers {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				pdf.CellFormat(colWidth, 6, cell, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePDF renders the master grid followed by one board per troop.
func WritePDF(w io.Writer, s Snapshot) error {
	boards := []Board{WeekBoard(s)}
	for _, t := range s.Troops {
		b, err := TroopBoard(s, t.Name)
		if err != nil {
			return err
		}
		boards = append(boards, b)
	}
	data, err := RenderPDF(boards...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
