package seed

import (
	"context"
	"testing"

	"github.com/nurpe/icontrol-orders/internal/model"
	"github.com/nurpe/icontrol-orders/internal/repository"
)

func TestOrdersAreConsistent(t *testing.T) {
	customers := make(map[string]bool)
	for _, c := range Customers() {
		customers[c.ID] = true
	}

	seen := make(map[string]bool)
	orders := Orders()
	for i, order := range orders {
		if seen[order.ID] {
			t.Errorf("duplicate id %s", order.ID)
		}
		seen[order.ID] = true

		if !order.Type.HasStatus(order.Status) {
			t.Errorf("%s: status %q not valid for %s", order.ID, order.Status, order.Type)
		}
		if (order.Maintenance != nil) == (order.Sale != nil) {
			t.Errorf("%s: exactly one payload expected", order.ID)
		}
		if order.Type == model.OrderTypeMaintenance && order.Maintenance == nil {
			t.Errorf("%s: maintenance payload missing", order.ID)
		}
		if order.CustomerID != nil && !customers[*order.CustomerID] {
			t.Errorf("%s: unknown customer %s", order.ID, *order.CustomerID)
		}
		if i > 0 && order.OpenDate.After(orders[i-1].OpenDate) {
			t.Errorf("%s: orders must be newest first", order.ID)
		}
	}
}

func TestLoadIntoEmptyStores(t *testing.T) {
	ctx := context.Background()
	customers := repository.NewMemoryCustomerRepository(nil)
	orders := repository.NewMemoryOrderRepository(nil)

	loaded, err := Load(ctx, customers, orders)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != len(Orders()) {
		t.Errorf("loaded = %d", loaded)
	}

	list, _ := orders.List(ctx)
	if list[0].ID != Orders()[0].ID {
		t.Errorf("first order = %s, want newest", list[0].ID)
	}
	next, _ := orders.NextSequence(ctx, model.OrderTypeMaintenance)
	if next != 6 {
		t.Errorf("next maintenance sequence = %d, want 6", next)
	}

	again, err := Load(ctx, customers, orders)
	if err != nil || again != 0 {
		t.Errorf("second Load = %d, %v; want a no-op", again, err)
	}
}
