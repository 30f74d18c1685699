package report

import (
	"io"

	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/xuri/excelize/v2"
)

// WriteExcel writes rep as a single-sheet workbook with labels in tr's language.
func WriteExcel(w io.Writer, rep *SalesReport, tr *i18n.Translator) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := tr.T("report.sheet", nil)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	row := 1
	set := func(values ...interface{}) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	last := rep.Range.To.AddDate(0, 0, -1)
	rows := [][]interface{}{
		{tr.T("report.period", nil), rep.Range.From.Format("02/01/2006") + " - " + last.Format("02/01/2006")},
		{tr.T("report.revenue", nil), rep.TotalRevenue.InexactFloat64()},
		{tr.T("report.sales", nil), rep.TotalSales},
		{tr.T("report.average", nil), rep.AverageTicket.InexactFloat64()},
		{},
		{tr.T("report.period", nil), tr.T("report.sales", nil), tr.T("report.revenue", nil)},
	}
	for _, b := range rep.Buckets {
		rows = append(rows, []interface{}{b.Label, b.Count, b.Total.InexactFloat64()})
	}
	rows = append(rows, []interface{}{}, []interface{}{tr.T("report.product", nil), tr.T("report.quantity", nil), tr.T("report.revenue", nil)})
	for _, p := range rep.TopProducts {
		rows = append(rows, []interface{}{p.Code + " " + p.Name, p.Quantity, p.Revenue.InexactFloat64()})
	}
	rows = append(rows, []interface{}{}, []interface{}{tr.T("report.method", nil), tr.T("report.sales", nil), tr.T("report.revenue", nil)})
	for _, m := range rep.PaymentMethods {
		rows = append(rows, []interface{}{tr.T("payment."+string(m.Method), nil), m.Count, m.Total.InexactFloat64()})
	}

	for _, r := range rows {
		if err := set(r...); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	return f.Write(w)
}
