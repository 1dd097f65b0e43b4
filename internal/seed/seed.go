// Package seed holds the demo dataset loaded into the in-memory stores at start-up.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/model"
	"github.com/nurpe/icontrol-orders/internal/repository"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Customers() []model.Customer {
	return []model.Customer{
		{ID: "1", Name: "João Silva", Phone: "(11) 98765-4321", Email: "joao.silva@email.com", CreatedAt: day(2023, time.March, 12)},
		{ID: "2", Name: "Maria Santos", Phone: "(11) 91234-5678", Email: "maria.santos@email.com", CreatedAt: day(2023, time.June, 3)},
		{ID: "3", Name: "Pedro Oliveira", Phone: "(11) 99876-5432", Email: "pedro.oliveira@email.com", CreatedAt: day(2023, time.September, 21)},
		{ID: "4", Name: "Ana Costa", Phone: "(11) 97654-3210", Email: "ana.costa@email.com", CreatedAt: day(2023, time.November, 8)},
		{ID: "5", Name: "Carlos Ferreira", Phone: "(11) 93456-7890", Email: "carlos.ferreira@email.com", CreatedAt: day(2024, time.January, 2)},
	}
}

// Orders returns the demo orders newest first.
func Orders() []model.Order {
	orders := []model.Order{
		{
			ID: "OS-005", Type: model.OrderTypeMaintenance, CustomerID: ptr("5"),
			CustomerName: "Carlos Ferreira", CustomerContact: "(11) 93456-7890",
			Description: "Aparelho não carrega", Priority: model.PriorityUrgent, PaymentStatus: model.PaymentAwaiting,
			EstimatedValue: money("180.00"), Status: model.StatusAwaitingEvaluation,
			OpenDate: day(2024, time.January, 22), ExpectedCompletionDate: ptr(day(2024, time.January, 24)),
			Maintenance: &model.MaintenanceDetails{
				DeviceModel: "Samsung Galaxy S23", IMEI: "356789012345678",
				ProblemDescription: "Aparelho não carrega",
			},
		},
		{
			ID: "VENDA-003", Type: model.OrderTypeSale, CustomerID: ptr("4"),
			CustomerName: "Ana Costa", CustomerContact: "(11) 97654-3210",
			Description: "AirPods Pro 2", Priority: model.PriorityMedium, PaymentStatus: model.PaymentAwaiting,
			EstimatedValue: money("1899.00"), Status: model.StatusReserved,
			OpenDate: day(2024, time.January, 21),
			Sale:     &model.SaleDetails{ProductSold: "AirPods Pro 2", ProductCondition: model.ConditionNew},
		},
		{
			ID: "OS-004", Type: model.OrderTypeMaintenance, CustomerID: ptr("3"),
			CustomerName: "Pedro Oliveira", CustomerContact: "(11) 99876-5432",
			Description: "Troca de bateria", Priority: model.PriorityLow, PaymentStatus: model.PaymentFullyPaid,
			EstimatedValue: money("220.00"), FinalValue: ptr(money("200.00")), Status: model.StatusDelivered,
			OpenDate: day(2024, time.January, 18), ExpectedCompletionDate: ptr(day(2024, time.January, 19)),
			Maintenance: &model.MaintenanceDetails{
				DeviceModel: "iPhone 11", IMEI: "353456789012345",
				ProblemDescription: "Bateria descarregando rápido", TechnicalDiagnosis: "Bateria com 71% de saúde",
				RequiredParts: "Bateria iPhone 11",
			},
		},
		{
			ID: "OS-003", Type: model.OrderTypeMaintenance, CustomerID: ptr("4"),
			CustomerName: "Ana Costa", CustomerContact: "(11) 97654-3210",
			Description: "Câmera traseira embaçada", Priority: model.PriorityMedium, PaymentStatus: model.PaymentAwaiting,
			EstimatedValue: money("350.00"), Status: model.StatusNotApproved,
			OpenDate: day(2024, time.January, 16),
			Maintenance: &model.MaintenanceDetails{
				DeviceModel: "iPhone 13", IMEI: "359876543210987",
				ProblemDescription: "Câmera traseira embaçada", TechnicalDiagnosis: "Lente trincada internamente",
			},
			InternalNotes: "Cliente recusou o orçamento",
		},
		{
			ID: "OS-002", Type: model.OrderTypeMaintenance, CustomerID: ptr("1"),
			CustomerName: "João Silva", CustomerContact: "(11) 98765-4321",
			Description: "Tela quebrada", Priority: model.PriorityHigh, PaymentStatus: model.PaymentPartiallyPaid,
			EstimatedValue: money("450.00"), Status: model.StatusInRepair,
			OpenDate: day(2024, time.January, 15), ExpectedCompletionDate: ptr(day(2024, time.January, 20)),
			Maintenance: &model.MaintenanceDetails{
				DeviceModel: "iPhone 15 Pro", IMEI: "123456789012345",
				ProblemDescription: "Tela quebrada após queda", TechnicalDiagnosis: "Display OLED danificado",
				RequiredParts: "Tela OLED iPhone 15 Pro",
			},
		},
		{
			ID: "VENDA-002", Type: model.OrderTypeSale, CustomerID: ptr("2"),
			CustomerName: "Maria Santos", CustomerContact: "(11) 91234-5678",
			Description: "Capa e película", Priority: model.PriorityLow, PaymentStatus: model.PaymentFullyPaid,
			EstimatedValue: money("120.00"), Status: model.StatusReadyForPickup,
			OpenDate: day(2024, time.January, 12),
			Sale:     &model.SaleDetails{ProductSold: "Capa e película iPhone 14", ProductCondition: model.ConditionNew},
		},
		{
			ID: "VENDA-001", Type: model.OrderTypeSale, CustomerID: ptr("2"),
			CustomerName: "Maria Santos", CustomerContact: "(11) 91234-5678",
			Description: "iPhone 14 128GB", Priority: model.PriorityMedium, PaymentStatus: model.PaymentFullyPaid,
			EstimatedValue: money("4299.00"), FinalValue: ptr(money("4199.00")), Status: model.StatusSaleCompleted,
			OpenDate: day(2024, time.January, 10),
			Sale:     &model.SaleDetails{ProductSold: "iPhone 14 128GB", ProductCondition: model.ConditionRefurbished},
		},
		{
			ID: "OS-001", Type: model.OrderTypeMaintenance, CustomerID: ptr("1"),
			CustomerName: "João Silva", CustomerContact: "(11) 98765-4321",
			Description: "Não liga", Priority: model.PriorityHigh, PaymentStatus: model.PaymentAwaiting,
			EstimatedValue: money("300.00"), Status: model.StatusAwaitingParts,
			OpenDate: day(2024, time.January, 8),
			Maintenance: &model.MaintenanceDetails{
				DeviceModel: "Motorola Edge 30", IMEI: "351234567890123",
				ProblemDescription: "Aparelho não liga", TechnicalDiagnosis: "Placa com curto no circuito de carga",
				RequiredParts: "CI de carga",
			},
		},
	}
	for i := range orders {
		orders[i].CreatedAt = orders[i].OpenDate.Add(9 * time.Hour)
		orders[i].UpdatedAt = orders[i].CreatedAt
		orders[i].Version = 1
	}
	return orders
}

// Load copies the demo data into empty stores. Orders are inserted oldest
// first so stores that prepend end up newest first.
func Load(ctx context.Context, customers repository.CustomerRepository, orders repository.OrderRepository) (int, error) {
	existing, err := orders.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, customer := range Customers() {
		if _, err := customers.Create(ctx, customer); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return 0, fmt.Errorf("seed customer %s: %w", customer.ID, err)
		}
	}

	list := Orders()
	loaded := 0
	for i := len(list) - 1; i >= 0; i-- {
		if _, err := orders.Create(ctx, list[i]); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return loaded, fmt.Errorf("seed order %s: %w", list[i].ID, err)
		}
		loaded++
	}
	return loaded, nil
}
