package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/icontrol-orders/internal/model"
)

const (
	summarySheet     = "Resumo"
	ordersSheet      = "Ordens"
	maintenanceSheet = "Manutenção"
	saleSheet        = "Venda"
	moneyFormat      = `"R$" #,##0.00`
)

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate writes a workbook with a summary sheet, one row per order, and a
// detail sheet per order type.
func (g *Generator) Generate(orders []model.Order, summary model.Summary) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", summarySheet)
	moneyStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: ptr(moneyFormat)})
	if err != nil {
		return nil, err
	}
	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	g.writeSummary(file, summary, moneyStyle, headerStyle)

	if _, err := file.NewSheet(ordersSheet); err != nil {
		return nil, err
	}
	g.writeOrders(file, orders, moneyStyle, headerStyle)

	if _, err := file.NewSheet(maintenanceSheet); err != nil {
		return nil, err
	}
	g.writeMaintenance(file, orders, headerStyle)

	if _, err := file.NewSheet(saleSheet); err != nil {
		return nil, err
	}
	g.writeSales(file, orders, headerStyle)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, summary model.Summary, moneyStyle, headerStyle int) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Gerado em")
	set("B1", g.now().Format("02/01/2006 15:04"))
	set("A2", "Total de ordens")
	set("B2", summary.TotalOrders)
	set("A3", "Manutenções")
	set("B3", summary.MaintenanceCount)
	set("A4", "Vendas")
	set("B4", summary.SaleCount)
	set("A5", "Urgentes")
	set("B5", summary.UrgentCount)
	set("A6", "Valor total")
	set("B6", summary.TotalValue.InexactFloat64())
	_ = file.SetCellStyle(summarySheet, "B6", "B6", moneyStyle)

	tableRow := 8
	set(fmt.Sprintf("A%d", tableRow), "Etapa")
	set(fmt.Sprintf("B%d", tableRow), "Ordens")
	set(fmt.Sprintf("C%d", tableRow), "Valor")
	_ = file.SetCellStyle(summarySheet, fmt.Sprintf("A%d", tableRow), fmt.Sprintf("C%d", tableRow), headerStyle)

	for i, stage := range summary.Stages {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), string(stage.Stage))
		set(fmt.Sprintf("B%d", row), stage.Count)
		set(fmt.Sprintf("C%d", row), stage.Value.InexactFloat64())
		_ = file.SetCellStyle(summarySheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), moneyStyle)
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "C", 18)
}

func (g *Generator) writeOrders(file *excelize.File, orders []model.Order, moneyStyle, headerStyle int) {
	headers := []string{
		"ID",
		"Tipo",
		"Cliente",
		"Contato",
		"Descrição",
		"Status",
		"Etapa",
		"Prioridade",
		"Pagamento",
		"Entrada",
		"Previsão",
		"Valor",
	}
	writeHeader(file, ordersSheet, headers, headerStyle)

	for i, order := range orders {
		row := i + 2
		values := []interface{}{
			order.ID,
			string(order.Type),
			order.CustomerName,
			order.CustomerContact,
			order.Description,
			string(order.Status),
			string(order.Stage()),
			string(order.Priority),
			string(order.PaymentStatus),
			formatDate(order.OpenDate),
			formatDatePtr(order.ExpectedCompletionDate),
			order.DisplayValue().InexactFloat64(),
		}
		writeRow(file, ordersSheet, row, values)
		cell, _ := excelize.CoordinatesToCellName(len(headers), row)
		_ = file.SetCellStyle(ordersSheet, cell, cell, moneyStyle)
	}

	_ = file.SetColWidth(ordersSheet, "A", "B", 14)
	_ = file.SetColWidth(ordersSheet, "C", "E", 28)
	_ = file.SetColWidth(ordersSheet, "F", "I", 22)
	_ = file.SetColWidth(ordersSheet, "J", "L", 14)
}

func (g *Generator) writeMaintenance(file *excelize.File, orders []model.Order, headerStyle int) {
	writeHeader(file, maintenanceSheet, []string{
		"ID",
		"Aparelho",
		"IMEI",
		"Problema",
		"Diagnóstico",
		"Peças",
		"Status",
	}, headerStyle)

	row := 2
	for _, order := range orders {
		if order.Maintenance == nil {
			continue
		}
		m := order.Maintenance
		writeRow(file, maintenanceSheet, row, []interface{}{
			order.ID,
			m.DeviceModel,
			m.IMEI,
			m.ProblemDescription,
			m.TechnicalDiagnosis,
			m.RequiredParts,
			string(order.Status),
		})
		row++
	}
	_ = file.SetColWidth(maintenanceSheet, "A", "C", 18)
	_ = file.SetColWidth(maintenanceSheet, "D", "G", 32)
}

func (g *Generator) writeSales(file *excelize.File, orders []model.Order, headerStyle int) {
	writeHeader(file, saleSheet, []string{
		"ID",
		"Produto",
		"Condição",
		"Status",
	}, headerStyle)

	row := 2
	for _, order := range orders {
		if order.Sale == nil {
			continue
		}
		writeRow(file, saleSheet, row, []interface{}{
			order.ID,
			order.Sale.ProductSold,
			string(order.Sale.ProductCondition),
			string(order.Status),
		})
		row++
	}
	_ = file.SetColWidth(saleSheet, "A", "A", 14)
	_ = file.SetColWidth(saleSheet, "B", "D", 30)
}

func writeHeader(file *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = file.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(file *excelize.File, sheet string, row int, values []interface{}) {
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = file.SetCellValue(sheet, cell, value)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func ptr[T any](v T) *T {
	return &v
}
