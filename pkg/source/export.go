package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/xuri/excelize/v2"
)

// Records renders t as a header row plus string records, nulls empty
func Records(t *table.Table) [][]string {
	out := make([][]string, 0, t.Len()+1)
	out = append(out, t.ColumnNames())
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		rec := make([]string, len(cols))
		for j, c := range cols {
			rec[j] = c.Value(i).Format(c.Kind())
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV writes t as comma separated values
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Records(t)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes t to the first sheet of a new workbook, numbers as
// numbers so spreadsheet formulas work on them
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, t.Width())
	for j, name := range t.ColumnNames() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.Value(i).Interface(c.Kind())
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		logger.Warn("Failed to freeze header row:", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes t to path, as xlsx or csv depending on the extension
func Save(path string, t *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = WriteXLSX(file, t)
	default:
		err = WriteCSV(file, t)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("Wrote", t.Len(), "rows to", path)
	return file.Close()
}
