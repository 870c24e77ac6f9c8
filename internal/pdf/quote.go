// Package pdf renders a persisted quotation as a single-page PDF: header
// with the quote reference, the requester's details, one table per payment
// partition and the totals block for the amount due now.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"licensure-service/internal/fields"
	"licensure-service/internal/models"
)

// GenerateQuotation writes the quotation PDF to w.
func GenerateQuotation(q *models.Quotation, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// Header bar
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW/2, 7, "QUOTATION", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2-4, 7, q.DisplayID, "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 14

	// Requester and service details
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW/2, 5.5, "Prepared for: "+fields.FormatFullName(q.FirstName, "", q.LastName), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5.5, "Date: "+formatDate(q.CreatedAt), "", 1, "R", false, 0, "")
	y += 5.5
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW/2, 5.5, "Service: "+q.Service+" ("+q.State+")", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5.5, "Payment: "+q.PaymentType+", "+q.TakerType, "", 1, "R", false, 0, "")
	y += 9

	var payNow, payLater []models.LineItem
	for _, item := range q.LineItems {
		if item.PayLater {
			payLater = append(payLater, item)
		} else {
			payNow = append(payNow, item)
		}
	}

	y = drawItemTable(pdf, "DUE NOW", payNow, marginL, y, contentW)
	if len(payLater) > 0 {
		y += 4
		y = drawItemTable(pdf, "SECOND INSTALLMENT (PAY LATER)", payLater, marginL, y, contentW)
	}
	y += 6

	// Totals block, right-aligned
	totalsW := contentW * 0.45
	totalsX := marginL + contentW - totalsW
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(totalsX, y)
	pdf.CellFormat(totalsW/2, 6, "Subtotal", "T", 0, "L", false, 0, "")
	pdf.CellFormat(totalsW/2, 6, fields.FormatAmount(q.Subtotal), "T", 1, "R", false, 0, "")
	y += 6
	pdf.SetXY(totalsX, y)
	pdf.CellFormat(totalsW/2, 6, "Tax", "", 0, "L", false, 0, "")
	pdf.CellFormat(totalsW/2, 6, fields.FormatAmount(q.Tax), "", 1, "R", false, 0, "")
	y += 6
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(totalsX, y)
	pdf.CellFormat(totalsW/2, 7, "Total due now", "T", 0, "L", false, 0, "")
	pdf.CellFormat(totalsW/2, 7, fields.FormatAmount(q.Amount), "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func drawItemTable(pdf *fpdf.Fpdf, title string, items []models.LineItem, x, y, width float64) float64 {
	descW := width * 0.55
	qtyW := width * 0.1
	amtW := width * 0.175

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(x, y)
	pdf.CellFormat(width, 5.5, title, "LRT", 1, "L", true, 0, "")
	y += 5.5

	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(x, y)
	pdf.CellFormat(descW, 5.5, "Description", "LT", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 5.5, "Qty", "T", 0, "R", false, 0, "")
	pdf.CellFormat(amtW, 5.5, "Unit", "T", 0, "R", false, 0, "")
	pdf.CellFormat(amtW, 5.5, "Amount", "RT", 1, "R", false, 0, "")
	y += 5.5

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.SetXY(x, y)
		pdf.CellFormat(descW, 5.5, item.Description, "L", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 5.5, fmt.Sprint(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(amtW, 5.5, fields.FormatAmount(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(amtW, 5.5, fields.FormatAmount(item.Total), "R", 1, "R", false, 0, "")
		y += 5.5
	}

	pdf.SetXY(x, y)
	pdf.CellFormat(width, 0, "", "LBR", 1, "L", false, 0, "")
	return y
}

func formatDate(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	return t.Format("January 2, 2006")
}
