package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/model"
)

const fontName = "Helvetica"

type Generator struct {
	shopName string
	now      func() time.Time
}

func NewGenerator(shopName string) *Generator {
	if strings.TrimSpace(shopName) == "" {
		shopName = "iControl"
	}
	return &Generator{shopName: shopName, now: time.Now}
}

// Generate renders a one-page receipt for the order.
func (g *Generator) Generate(order model.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(g.shopName), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "B", 13)
	pdf.CellFormat(0, 8, tr(receiptTitle(order.Type)+" "+order.ID), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, tr("Emitido em "+g.now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, tr, "Cliente")
	field(pdf, tr, "Nome", order.CustomerName)
	field(pdf, tr, "Contato", order.CustomerContact)
	pdf.Ln(2)

	section(pdf, tr, "Ordem")
	field(pdf, tr, "Descrição", order.Description)
	field(pdf, tr, "Status", string(order.Status))
	field(pdf, tr, "Prioridade", string(order.Priority))
	field(pdf, tr, "Entrada", formatDate(order.OpenDate))
	if order.ExpectedCompletionDate != nil {
		field(pdf, tr, "Previsão", formatDate(*order.ExpectedCompletionDate))
	}
	pdf.Ln(2)

	switch {
	case order.Maintenance != nil:
		m := order.Maintenance
		section(pdf, tr, "Aparelho")
		field(pdf, tr, "Modelo", m.DeviceModel)
		field(pdf, tr, "IMEI", m.IMEI)
		field(pdf, tr, "Problema", m.ProblemDescription)
		field(pdf, tr, "Diagnóstico", m.TechnicalDiagnosis)
		field(pdf, tr, "Peças", m.RequiredParts)
	case order.Sale != nil:
		section(pdf, tr, "Produto")
		field(pdf, tr, "Produto", order.Sale.ProductSold)
		field(pdf, tr, "Condição", string(order.Sale.ProductCondition))
	}
	pdf.Ln(2)

	section(pdf, tr, "Valores")
	colWidths := []float64{120, 60}
	drawTableRow(pdf, tr, []string{"Descrição", "Valor"}, colWidths, true)
	drawTableRow(pdf, tr, []string{"Valor estimado", formatMoney(order.EstimatedValue)}, colWidths, false)
	if order.FinalValue != nil {
		drawTableRow(pdf, tr, []string{"Valor final", formatMoney(*order.FinalValue)}, colWidths, false)
	}
	drawTableRow(pdf, tr, []string{"Total", formatMoney(order.DisplayValue())}, colWidths, true)
	pdf.Ln(2)
	field(pdf, tr, "Pagamento", string(order.PaymentStatus))

	pdf.Ln(12)
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr("Assinatura do cliente: ______________________________"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func receiptTitle(orderType model.OrderType) string {
	if orderType == model.OrderTypeSale {
		return "Comprovante de venda"
	}
	return "Ordem de serviço"
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
}

func field(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont(fontName, "", 10)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", label, safeValue(value))), "", "L", false)
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// formatMoney renders 1234.5 as "R$ 1.234,50".
func formatMoney(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), frac)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
