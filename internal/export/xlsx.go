package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/clientdesk/clientdesk/internal/customers"
)

const sheetName = "Customers"

// exportDateLayout matches how due dates appear elsewhere in the UI.
const exportDateLayout = "02/01/2006"

var exportHeader = []string{"Name", "Email", "Phone", "Amount Due", "Status", "Due Date", "Notes"}

// WriteXLSX renders the customer list as a spreadsheet workbook with a
// single sheet, one header row and one row per customer.
func WriteXLSX(w io.Writer, list []customers.Customer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, c := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		row := customerRow(c)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// customerRow flattens a customer into export cells. Optional fields
// export as empty strings.
func customerRow(c customers.Customer) []string {
	email, phone, notes, due := "", "", "", ""
	if c.Email != nil {
		email = *c.Email
	}
	if c.Phone != nil {
		phone = *c.Phone
	}
	if c.Notes != nil {
		notes = *c.Notes
	}
	if c.DueDate != nil {
		due = c.DueDate.Format(exportDateLayout)
	}
	return []string{
		c.Name,
		email,
		phone,
		fmt.Sprintf("%.2f", c.AmountDue),
		string(c.Status),
		due,
		notes,
	}
}
