package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"cyclelens/domain/report"
	"cyclelens/internal/errors"
)

// ReportWriter exports the three statistical report tables as a workbook,
// one sheet per table.
type ReportWriter struct{}

// NewReportWriter creates a report workbook writer.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// Write saves the report to an xlsx file at path.
func (w *ReportWriter) Write(path string, rep *report.StatsReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		columns []string
		rows    []report.Row
	}{
		{"Descriptive", report.DescriptiveColumns, rep.Descriptive},
		{"Overall Tests", report.OmnibusColumns, rep.Omnibus},
		{"Pairwise", report.PairwiseColumns, rep.Pairwise},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return errors.Wrap(err, "failed to rename sheet")
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return errors.Wrapf(err, "failed to create sheet %s", sheet.name)
			}
		}
		if err := writeRows(f, sheet.name, sheet.columns, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save report to %s", path)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, columns []string, rows []report.Row) error {
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrapf(err, "failed to write header on %s", sheet)
	}

	for i, row := range rows {
		values := make([]interface{}, len(columns))
		for j, col := range columns {
			values[j] = row[col]
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Wrapf(err, "failed to write row %d on %s", i+2, sheet)
		}
	}

	return nil
}
