package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/repository"
	"github.com/nurpe/icontrol-orders/internal/seed"
)

func newCustomerService() *CustomerService {
	return NewCustomerService(
		repository.NewMemoryCustomerRepository(seed.Customers()),
		repository.NewMemoryOrderRepository(seed.Orders()),
	)
}

func TestListCustomersSearch(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	tests := []struct {
		search string
		want   int
	}{
		{"", 5},
		{"   ", 5},
		{"maria", 1},
		{"@EMAIL.COM", 5},
		{"98765", 1},
		{"ninguém", 0},
	}
	for _, tt := range tests {
		got, err := svc.ListCustomers(ctx, tt.search)
		if err != nil {
			t.Fatalf("ListCustomers(%q): %v", tt.search, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListCustomers(%q) = %d customers, want %d", tt.search, len(got), tt.want)
		}
	}
}

func TestGetCustomerAndOrders(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	if _, err := svc.GetCustomer(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetOrdersForCustomer(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	orders, err := svc.GetOrdersForCustomer(ctx, "1")
	if err != nil {
		t.Fatalf("GetOrdersForCustomer: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "OS-002" || orders[1].ID != "OS-001" {
		t.Errorf("orders = %v", orders)
	}
}

func TestCreateCustomer(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: " Lia Souza ", Phone: "(11) 90000-0000", Email: "lia@email.com"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if created.ID == "" || created.Name != "Lia Souza" {
		t.Errorf("created = %+v", created)
	}
	if _, err := svc.GetCustomer(ctx, created.ID); err != nil {
		t.Errorf("GetCustomer: %v", err)
	}

	invalid := []CreateCustomerInput{
		{Phone: "1"},
		{Name: "Lia"},
		{Name: "Lia", Phone: "1", Email: "lia.email.com"},
	}
	for _, input := range invalid {
		if _, err := svc.CreateCustomer(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("CreateCustomer(%+v) err = %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestDeleteCustomerWithOrdersIsForbidden(t *testing.T) {
	svc := newCustomerService()
	ctx := context.Background()

	if err := svc.DeleteCustomer(ctx, "1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if _, err := svc.GetCustomer(ctx, "1"); err != nil {
		t.Fatal("customer must survive a refused delete")
	}

	created, _ := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Lia", Phone: "1"})
	if err := svc.DeleteCustomer(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if err := svc.DeleteCustomer(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCustomerSummaryExcludesCancelledOrders(t *testing.T) {
	svc := newCustomerService()

	// Ana Costa: VENDA-003 reserved (1899) and OS-003 cancelled (350).
	summary, err := svc.CustomerSummary(context.Background(), "4")
	if err != nil {
		t.Fatalf("CustomerSummary: %v", err)
	}
	if summary.TotalOrders != 2 || summary.MaintenanceCount != 1 || summary.SaleCount != 1 {
		t.Errorf("counts = %+v", summary)
	}
	if want := decimal.RequireFromString("1899"); !summary.TotalSpent.Equal(want) {
		t.Errorf("total spent = %s, want %s", summary.TotalSpent, want)
	}
}
