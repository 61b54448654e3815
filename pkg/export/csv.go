package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var entryHeaders = []string{"week", "troop", "activity", "day", "slot", "span", "duration"}

func entryRows(s Snapshot) [][]string {
	week := strconv.Itoa(s.Week)
	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, []string{
			week,
			e.Troop,
			e.Activity,
			e.Day.String(),
			strconv.Itoa(e.Slot),
			strconv.Itoa(e.Span),
			strconv.FormatFloat(e.Duration, 'f', -1, 64),
		})
	}
	return rows
}

// WriteCSV writes one row per entry.
func WriteCSV(w io.Writer, s Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entryHeaders); err != nil {
		return err
	}
	if err := cw.WriteAll(entryRows(s)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteBoardCSV writes a board as CSV with its headers.
func WriteBoardCSV(w io.Writer, b Board) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(b.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(b.Rows); err != nil {
		return err
	}
	return cw.Error()
}
