package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/diagnosis/receipt-downloader/internal/domain"
)

//go:embed templates/receipt_pdf.html
var templateFS embed.FS

var docTmpl = template.Must(template.ParseFS(templateFS, "templates/receipt_pdf.html"))

type docData struct {
	ReceiptID     string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Date          string
	Description   string
	Amount        string
	PaymentMethod string
	Status        string
}

// Document merges a verified receipt into the printable HTML page handed
// to the PDF renderer. Every field goes through html/template, so stored
// data cannot inject markup into the document.
func Document(rec *domain.Receipt) (string, error) {
	data := docData{
		ReceiptID:     rec.ReceiptID,
		CustomerName:  orNA(rec.CustomerName),
		CustomerPhone: orNA(rec.CustomerPhone),
		CustomerEmail: orNA(rec.CustomerEmail),
		Date:          rec.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
		Description:   orNA(rec.Description),
		Amount:        fmt.Sprintf("%.2f", rec.Amount),
		PaymentMethod: orNA(rec.PaymentMethod),
		Status:        orNA(string(rec.Status)),
	}

	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	return buf.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
