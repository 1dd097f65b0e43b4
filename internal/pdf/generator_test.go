package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/model"
)

func TestGenerateReceipt(t *testing.T) {
	final := decimal.RequireFromString("420.00")
	orders := []model.Order{
		{
			ID: "OS-002", Type: model.OrderTypeMaintenance, CustomerName: "João Silva",
			Description: "Tela quebrada", Status: model.StatusRepairCompleted,
			EstimatedValue: decimal.RequireFromString("450.00"), FinalValue: &final,
			OpenDate:    time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Maintenance: &model.MaintenanceDetails{DeviceModel: "iPhone 15 Pro", IMEI: "123456789012345", TechnicalDiagnosis: "Display danificado"},
		},
		{
			ID: "VENDA-001", Type: model.OrderTypeSale, CustomerName: "Maria Santos",
			Description: "iPhone 14", Status: model.StatusReserved,
			EstimatedValue: decimal.RequireFromString("4299.00"),
			Sale:           &model.SaleDetails{ProductSold: "iPhone 14 128GB", ProductCondition: model.ConditionNew},
		},
	}

	g := NewGenerator("")
	for _, order := range orders {
		content, err := g.Generate(order)
		if err != nil {
			t.Fatalf("Generate(%s): %v", order.ID, err)
		}
		if !bytes.HasPrefix(content, []byte("%PDF-")) {
			t.Errorf("%s: output is not a PDF", order.ID)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":        "R$ 0,00",
		"250":      "R$ 250,00",
		"1234.5":   "R$ 1.234,50",
		"4299":     "R$ 4.299,00",
		"1000000":  "R$ 1.000.000,00",
		"-1500.25": "-R$ 1.500,25",
	}
	for in, want := range tests {
		if got := formatMoney(decimal.RequireFromString(in)); got != want {
			t.Errorf("formatMoney(%s) = %q, want %q", in, got, want)
		}
	}
}
