// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/transaction"
)

// Service handles PDF generation
type Service struct {
	config   *config.Config
	template *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:   cfg,
		template: template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// GenerateReceipt renders a till receipt for a finalized transaction
func (s *Service) GenerateReceipt(txn *transaction.Transaction) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(s.receiptData(txn))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// 80mm thermal roll
	pdfg.Dpi.Set(203)
	pdfg.PageWidth.Set(80)
	pdfg.PageHeight.Set(200)
	pdfg.MarginLeft.Set(2)
	pdfg.MarginRight.Set(2)
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) receiptData(txn *transaction.Transaction) ReceiptData {
	title := "SALES RECEIPT"
	if txn.Mode == "purchases" {
		title = "PURCHASE RECEIPT"
	}

	data := ReceiptData{
		Title:     title,
		Number:    txn.Number,
		Date:      txn.CreatedAt.Format("2006-01-02 15:04"),
		CashierID: txn.CashierID,
		ItemCount: txn.ItemCount.String(),
		Total:     txn.Total.StringFixed(2),
		Footer:    s.config.Receipt.Footer,
		Company: CompanyInfo{
			Name:    s.config.Receipt.CompanyName,
			Address: s.config.Receipt.CompanyAddress,
			Phone:   s.config.Receipt.CompanyPhone,
		},
		Lines: make([]ReceiptLine, 0, len(txn.Lines)),
	}

	for i := range txn.Lines {
		line := &txn.Lines[i]
		data.Lines = append(data.Lines, ReceiptLine{
			Name:      line.ProductName(),
			Quantity:  line.Quantity.String(),
			UnitPrice: line.UnitPrice.StringFixed(2),
			Total:     line.LineTotal.StringFixed(2),
			IsPackage: line.PackageID != nil,
		})
	}

	return data
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Title     string
	Number    string
	Date      string
	CashierID uint
	Company   CompanyInfo
	Lines     []ReceiptLine
	ItemCount string
	Total     string
	Footer    string
}

// ReceiptLine is one printed line
type ReceiptLine struct {
	Name      string
	Quantity  string
	UnitPrice string
	Total     string
	IsPackage bool
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Number}}</title>
    <style>
        body {
            font-family: "Courier New", monospace;
            font-size: 11px;
            margin: 0;
            padding: 4px;
            color: #000;
        }
        .center {
            text-align: center;
        }
        .title {
            font-size: 14px;
            font-weight: bold;
            margin: 6px 0;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        td {
            padding: 2px 0;
            vertical-align: top;
        }
        .num {
            text-align: right;
            white-space: nowrap;
        }
        .rule {
            border-top: 1px dashed #000;
            margin: 6px 0;
        }
        .total-row td {
            font-size: 13px;
            font-weight: bold;
        }
    </style>
</head>
<body>
    <div class="center">
        <div class="title">{{.Company.Name}}</div>
        {{if .Company.Address}}<div>{{.Company.Address}}</div>{{end}}
        {{if .Company.Phone}}<div>Tel: {{.Company.Phone}}</div>{{end}}
        <div class="title">{{.Title}}</div>
        <div>{{.Number}}</div>
        <div>{{.Date}} &middot; Cashier #{{.CashierID}}</div>
    </div>

    <div class="rule"></div>

    <table>
        {{range .Lines}}
        <tr>
            <td colspan="2">{{.Name}}{{if .IsPackage}} (pkg){{end}}</td>
        </tr>
        <tr>
            <td>{{.Quantity}} x {{.UnitPrice}}</td>
            <td class="num">{{.Total}}</td>
        </tr>
        {{end}}
    </table>

    <div class="rule"></div>

    <table>
        <tr>
            <td>Items</td>
            <td class="num">{{.ItemCount}}</td>
        </tr>
        <tr class="total-row">
            <td>TOTAL</td>
            <td class="num">{{.Total}}</td>
        </tr>
    </table>

    <div class="rule"></div>

    {{if .Footer}}<div class="center">{{.Footer}}</div>{{end}}
</body>
</html>
`
