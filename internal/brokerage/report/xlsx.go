package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"brokerage-service/internal/utils"
)

const xlsxSheet = "Brokerage"

// XLSX renders the bill as a single-sheet workbook with numeric cells.
type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSX) Ext() string { return ".xlsx" }

func (XLSX) Render(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("bold style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	row := 1
	put := func(col int, v any, style int) {
		if err != nil {
			return
		}
		var cell string
		if cell, err = excelize.CoordinatesToCellName(col, row); err != nil {
			return
		}
		if err = f.SetCellValue(xlsxSheet, cell, v); err != nil {
			return
		}
		if style != 0 {
			err = f.SetCellStyle(xlsxSheet, cell, cell, style)
		}
	}

	put(1, r.Firm.Name, bold)
	row++
	put(1, r.Firm.Address, 0)
	row++
	put(1, fmt.Sprintf("Phone: %s ; PAN NO: %s", r.Firm.Phone, r.Firm.PAN), 0)
	row += 2
	put(1, "BROKERAGE FROM : "+r.Period, bold)
	row++
	put(1, "Bill No: "+r.BillNo, bold)
	put(len(r.Columns), "Date: "+r.BillDate, bold)
	row += 2

	for i, fld := range r.Recipient {
		put(i+1, fld.Label, bold)
	}
	row++
	for i, fld := range r.Recipient {
		put(i+1, fld.Value, 0)
	}
	row += 2

	for i, c := range r.Columns {
		put(i+1, c, bold)
	}
	for _, l := range r.Lines {
		row++
		put(1, l.No, 0)
		put(2, l.Date, 0)
		put(3, l.Party, 0)
		put(4, l.Counterpart, 0)
		put(5, l.BillNo, 0)
		put(6, l.Qty, 0)
		put(7, l.Rate, 0)
		put(8, utils.Round2(l.Amt), money)
		put(9, utils.Round2(l.Comm), money)
	}
	row += 2

	put(1, "Summary", bold)
	put(2, "Value", bold)
	row++
	put(1, "Total Transactions", 0)
	put(2, r.Totals.Count, 0)
	row++
	put(1, "Total Quantity (Quintals)", 0)
	put(2, utils.Round2(r.Totals.Quantity), money)
	row++
	put(1, "Total Amount", 0)
	put(2, utils.Round2(r.Totals.Amount), money)
	row++
	put(1, "Total Commission", 0)
	put(2, utils.Round2(r.Totals.Commission), money)
	row++
	put(1, "Commission Type", 0)
	put(2, CommissionType(r.Rates), 0)
	row += 2

	b := r.Firm.Bank
	for i, h := range []string{"Acc Name", "A/C No", "Bank Name", "IFSC", "UPI NO"} {
		put(i+1, h, bold)
	}
	row++
	for i, v := range []string{b.AccountName, b.AccountNo, b.BankName, b.IFSC, b.UPI} {
		put(i+1, v, 0)
	}
	row += 2
	put(len(r.Columns), "Authorized Signatory", bold)
	if err != nil {
		return fmt.Errorf("write cells: %w", err)
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 6); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "I", 16); err != nil {
		return err
	}
	return f.Write(w)
}
