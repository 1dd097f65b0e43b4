package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/icontrol-orders/internal/model"
)

func TestGenerateRoundTrip(t *testing.T) {
	final := decimal.RequireFromString("4199.00")
	orders := []model.Order{
		{
			ID: "OS-001", Type: model.OrderTypeMaintenance, CustomerName: "João Silva",
			Description: "Tela quebrada", Status: model.StatusInRepair, Priority: model.PriorityHigh,
			EstimatedValue: decimal.RequireFromString("450.00"),
			OpenDate:       time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Maintenance:    &model.MaintenanceDetails{DeviceModel: "iPhone 15 Pro", IMEI: "123456789012345"},
		},
		{
			ID: "VENDA-001", Type: model.OrderTypeSale, CustomerName: "Maria Santos",
			Description: "iPhone 14", Status: model.StatusSaleCompleted,
			EstimatedValue: decimal.RequireFromString("4299.00"), FinalValue: &final,
			OpenDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			Sale:     &model.SaleDetails{ProductSold: "iPhone 14 128GB", ProductCondition: model.ConditionRefurbished},
		},
	}
	summary := model.Summary{TotalOrders: 2, MaintenanceCount: 1, SaleCount: 1, TotalValue: decimal.RequireFromString("4649.00")}

	g := NewGenerator()
	g.now = func() time.Time { return time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC) }
	content, err := g.Generate(orders, summary)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer file.Close()

	want := []string{summarySheet, ordersSheet, maintenanceSheet, saleSheet}
	sheets := file.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	rows, err := file.GetRows(ordersSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "OS-001" || rows[2][0] != "VENDA-001" {
		t.Errorf("ids = %q, %q", rows[1][0], rows[2][0])
	}
	if rows[1][6] != string(model.StageInProgress) {
		t.Errorf("stage = %q", rows[1][6])
	}

	raw, _ := file.GetCellValue(ordersSheet, "L3", excelize.Options{RawCellValue: true})
	if raw != "4199" {
		t.Errorf("sale value = %q, want final value 4199", raw)
	}

	imei, _ := file.GetCellValue(maintenanceSheet, "C2")
	if imei != "123456789012345" {
		t.Errorf("imei = %q", imei)
	}
	product, _ := file.GetCellValue(saleSheet, "B2")
	if product != "iPhone 14 128GB" {
		t.Errorf("product = %q", product)
	}
}
