package devapi

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
	"github.com/jung-kurt/gofpdf"
)

var rosterColumns = []struct {
	title string
	width float64
}{
	{"ID", 15},
	{"First name", 35},
	{"Last name", 35},
	{"Email", 70},
	{"Salary", 25},
}

// RenderRoster lays the employee list out as an A4 table.
func RenderRoster(list []employee.Employee, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Employees", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employees")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s, %d records", generatedAt.Format("2006-01-02 15:04"), len(list)))
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range rosterColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, e := range list {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}
		cells := []string{e.ID.String(), tr(e.FirstName), tr(e.LastName), tr(e.EmailID), employee.FormatSalary(e.Salary)}
		for i, col := range rosterColumns {
			align := "L"
			if i == len(rosterColumns)-1 {
				align = "R"
			}
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render roster pdf: %w", err)
	}
	return buf.Bytes(), nil
}
