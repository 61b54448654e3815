package export

import (
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const entriesSheet = "Entries"

// WriteXLSX writes a workbook with the week grid on the first sheet, one
// sheet per commissioner group and the raw entries on the last sheet.
func WriteXLSX(w io.Writer, s Snapshot) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	week := WeekBoard(s)
	if err := f.SetSheetName("Sheet1", "Week"); err != nil {
		return err
	}
	if err := writeSheet(f, "Week", week.Headers, week.Rows); err != nil {
		return err
	}
	for _, g := range commissionerGroups(s) {
		b, err := CommissionerBoard(s, g)
		if err != nil {
			return err
		}
		name := "Commissioner " + g
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, b.Headers, b.Rows); err != nil {
			return err
		}
	}
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return err
	}
	if err := writeSheet(f, entriesSheet, entryHeaders, entryRows(s)); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	all := append([][]string{headers}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}

func commissionerGroups(s Snapshot) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.Troops {
		if t.Commissioner != "" && !seen[t.Commissioner] {
			seen[t.Commissioner] = true
			out = append(out, t.Commissioner)
		}
	}
	sort.Strings(out)
	return out
}
