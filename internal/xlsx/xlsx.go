// Package xlsx loads and writes the roster spreadsheet. The first sheet is
// the roster: header row first, one row per record. Cell values arrive as
// the displayed text; empty cells become nil so downstream code can tell
// "blank" from "empty string".
package xlsx

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aulatools/conciliador/internal/utils/ptr"
	"github.com/aulatools/conciliador/pkg/errors"
	"github.com/aulatools/conciliador/pkg/roster"
)

// Load reads the roster table from the first sheet of an XLSX file.
func Load(path string) (*roster.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.NewParseError("xlsx", path, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError("xlsx", path, "sheet is empty", nil)
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h != "" {
			headers = append(headers, h)
		}
	}
	table := roster.NewTable(headers)

	for _, raw := range rows[1:] {
		if isBlank(raw) {
			continue
		}
		values := make([]*string, len(headers))
		for i := range headers {
			if i < len(raw) {
				if v := strings.TrimSpace(raw[i]); v != "" {
					values[i] = ptr.To(v)
				}
			}
		}
		table.Rows = append(table.Rows, roster.FromRecord(headers, values))
	}
	return table, nil
}

// Write serializes the table back to an XLSX file: header row plus one row
// per record, columns ordered per the table's header list.
func Write(path string, table *roster.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for i, row := range table.Rows {
		values := row.Record(table.Headers)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			if v != nil {
				cells[j] = ptr.Deref(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.WrapIO("write", path, err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func isBlank(raw []string) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
