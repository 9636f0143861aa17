// Package pdf renders sales invoices as A4 PDF documents.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"bizbooks/internal/models"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
	dateLayout = "02 Jan 2006"
)

type column struct {
	title string
	width float64
	align string
}

var itemColumns = []column{
	{"#", 8, "C"},
	{"Item", 62, "L"},
	{"Qty", 14, "R"},
	{"Unit Price", 26, "R"},
	{"CGST", 24, "R"},
	{"SGST", 24, "R"},
	{"Total", 22, "R"},
}

// Renderer draws invoices with the company profile in the header.
type Renderer struct {
	company models.Company
}

func NewRenderer(company models.Company) *Renderer {
	return &Renderer{company: company}
}

// Render writes inv as a PDF to w.
func (r *Renderer) Render(w io.Writer, inv *models.Invoice) error {
	if inv == nil {
		return errors.New("pdf: nil invoice")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle("Invoice "+inv.InvoiceNo, true)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	r.header(doc, tr)
	r.billing(doc, tr, inv)
	r.items(doc, tr, inv)
	r.totals(doc, inv)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: render %s: %w", inv.InvoiceNo, err)
	}
	return doc.Output(w)
}

func (r *Renderer) header(doc *gofpdf.Fpdf, tr func(string) string) {
	if r.company.Logo != "" {
		if _, err := os.Stat(r.company.Logo); err == nil {
			doc.ImageOptions(r.company.Logo, pageMargin, pageMargin, 25, 0, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			doc.SetX(pageMargin + 30)
		}
	}

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 8, tr(r.company.Name), "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 9)
	for _, line := range []string{r.company.Tagline, r.company.Address, r.company.Phone, r.company.Email} {
		if line != "" {
			doc.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	if r.company.GSTIN != "" {
		doc.CellFormat(0, 4.5, "GSTIN: "+r.company.GSTIN, "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 8, "TAX INVOICE", "B", 1, "C", false, 0, "")
	doc.Ln(3)
}

func (r *Renderer) billing(doc *gofpdf.Fpdf, tr func(string) string, inv *models.Invoice) {
	half := (210 - 2*pageMargin) / 2

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(half, lineHeight, "Bill To", "", 0, "L", false, 0, "")
	doc.CellFormat(half, lineHeight, "Invoice No: "+inv.InvoiceNo, "", 1, "R", false, 0, "")

	doc.SetFont("Arial", "", 10)
	doc.CellFormat(half, lineHeight, tr(inv.CustomerName), "", 0, "L", false, 0, "")
	doc.CellFormat(half, lineHeight, "Date: "+inv.InvoiceDate.Format(dateLayout), "", 1, "R", false, 0, "")
	doc.CellFormat(half, lineHeight, inv.CustomerMobile, "", 0, "L", false, 0, "")
	doc.CellFormat(half, lineHeight, "Status: "+string(inv.PaymentStatus), "", 1, "R", false, 0, "")
	if inv.CustomerAddress != "" {
		doc.MultiCell(half, 5, tr(inv.CustomerAddress), "", "L", false)
	}
	doc.Ln(4)
}

func (r *Renderer) items(doc *gofpdf.Fpdf, tr func(string) string, inv *models.Invoice) {
	doc.SetFont("Arial", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		doc.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 9)
	for i, item := range inv.Items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			tr(item.ItemName),
			fmt.Sprintf("%d", item.Quantity),
			item.UnitPrice.StringFixed(2),
			fmt.Sprintf("%s (%s%%)", item.CGSTAmount.StringFixed(2), item.CGSTRate.String()),
			fmt.Sprintf("%s (%s%%)", item.SGSTAmount.StringFixed(2), item.SGSTRate.String()),
			item.TotalPrice.StringFixed(2),
		}
		for j, col := range itemColumns {
			doc.CellFormat(col.width, lineHeight, cells[j], "1", 0, col.align, false, 0, "")
		}
		doc.Ln(-1)
	}
}

func (r *Renderer) totals(doc *gofpdf.Fpdf, inv *models.Invoice) {
	var labelWidth float64
	for _, col := range itemColumns[:len(itemColumns)-1] {
		labelWidth += col.width
	}
	totalWidth := itemColumns[len(itemColumns)-1].width

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(labelWidth, 8, "Grand Total (Rs.)", "1", 0, "R", false, 0, "")
	doc.CellFormat(totalWidth, 8, inv.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Arial", "I", 8)
	doc.CellFormat(0, 5, "This is a computer generated invoice.", "", 1, "C", false, 0, "")
}
