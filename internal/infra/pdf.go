package infra

// pdf.go — thermal receipt-style PDF generation using go-pdf/fpdf.
// The output file is saved to storagePath/receipt_{sale id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"gymops/internal/model"
)

// GenerateReceiptPDF renders a PDF receipt for a committed sale.
// storagePath is created if needed; returns the absolute path of the file.
func GenerateReceiptPDF(sale *model.Sale, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.ID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "GymOps", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sale receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Lines ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(contentW*0.6, 4, fmt.Sprintf("%dx %s", item.Quantity, name), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 4, item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	for _, line := range sale.Lines {
		name := ""
		if line.Service != nil {
			name = line.Service.Name
		}
		pdf.CellFormat(contentW*0.6, 4, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 4, line.Price.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	if sale.Discount.IsPositive() {
		pdf.CellFormat(contentW*0.6, 4, "Discount", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 4, "-"+sale.Discount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.6, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, sale.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Payment: %s", sale.PaymentMethod), "", 1, "L", false, 0, "")
	if sale.PaymentMethod == model.PayMixed {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("  cash %s / electronic %s",
			sale.CashAmount.StringFixed(2), sale.ElectronicAmount.StringFixed(2)), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
