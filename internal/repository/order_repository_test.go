package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/model"
)

func newOrder(id string, orderType model.OrderType) model.Order {
	return model.Order{
		ID:             id,
		Type:           orderType,
		CustomerName:   "Ana",
		Description:    "Tela trincada",
		EstimatedValue: decimal.NewFromInt(250),
		Status:         orderType.InitialStatus(),
		OpenDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryCreatePrependsAndAssignsVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository([]model.Order{newOrder("OS-001", model.OrderTypeMaintenance)})

	saved, err := repo.Create(ctx, newOrder("OS-002", model.OrderTypeMaintenance))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.Version != 1 {
		t.Fatalf("version = %d, want 1", saved.Version)
	}

	orders, _ := repo.List(ctx)
	if len(orders) != 2 || orders[0].ID != "OS-002" || orders[1].ID != "OS-001" {
		t.Fatalf("unexpected order: %+v", orders)
	}

	if _, err := repo.Create(ctx, newOrder("OS-002", model.OrderTypeMaintenance)); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate create err = %v", err)
	}
}

func TestMemoryUpdatePreservesIdentityAndChecksVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository(nil)
	created, _ := repo.Create(ctx, newOrder("OS-001", model.OrderTypeMaintenance))

	patch := created.Clone()
	patch.Description = "Troca de bateria"
	patch.OpenDate = time.Now().AddDate(1, 0, 0)

	updated, err := repo.Update(ctx, patch, created.Version)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != "Troca de bateria" {
		t.Fatalf("description = %q", updated.Description)
	}
	if !updated.OpenDate.Equal(created.OpenDate) {
		t.Fatal("open date must be preserved")
	}
	if updated.Version != 2 {
		t.Fatalf("version = %d, want 2", updated.Version)
	}

	if _, err := repo.Update(ctx, patch, 1); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale update err = %v", err)
	}
	if _, err := repo.Update(ctx, patch, 0); err != nil {
		t.Fatalf("unversioned update must be last-write-wins: %v", err)
	}

	missing := newOrder("OS-404", model.OrderTypeMaintenance)
	if _, err := repo.Update(ctx, missing, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing update err = %v", err)
	}
}

func TestMemoryReturnedOrdersAreCopies(t *testing.T) {
	ctx := context.Background()
	order := newOrder("OS-001", model.OrderTypeMaintenance)
	order.Maintenance = &model.MaintenanceDetails{IMEI: "111111111111111"}
	repo := NewMemoryOrderRepository([]model.Order{order})

	got, _ := repo.Get(ctx, "OS-001")
	got.Maintenance.IMEI = "changed"

	again, _ := repo.Get(ctx, "OS-001")
	if again.Maintenance.IMEI != "111111111111111" {
		t.Fatal("store state leaked through Get")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository([]model.Order{newOrder("OS-001", model.OrderTypeMaintenance)})

	if err := repo.Delete(ctx, "OS-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	orders, _ := repo.List(ctx)
	if len(orders) != 1 {
		t.Fatal("failed delete changed contents")
	}
	if err := repo.Delete(ctx, "OS-001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "OS-001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestMemorySequenceStartsAfterSeedAndNeverReuses(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository([]model.Order{
		newOrder("OS-007", model.OrderTypeMaintenance),
		newOrder("OS-003", model.OrderTypeMaintenance),
		newOrder("VENDA-002", model.OrderTypeSale),
	})

	n, _ := repo.NextSequence(ctx, model.OrderTypeMaintenance)
	if n != 8 {
		t.Fatalf("next maintenance = %d, want 8", n)
	}
	_ = repo.Delete(ctx, "OS-007")
	n, _ = repo.NextSequence(ctx, model.OrderTypeMaintenance)
	if n != 9 {
		t.Fatalf("next after delete = %d, want 9", n)
	}
	n, _ = repo.NextSequence(ctx, model.OrderTypeSale)
	if n != 3 {
		t.Fatalf("next sale = %d, want 3", n)
	}
}

func TestMemoryCountByCustomer(t *testing.T) {
	ctx := context.Background()
	customerID := "c1"
	a := newOrder("OS-001", model.OrderTypeMaintenance)
	a.CustomerID = &customerID
	b := newOrder("OS-002", model.OrderTypeMaintenance)
	repo := NewMemoryOrderRepository([]model.Order{a, b})

	count, err := repo.CountByCustomer(ctx, "c1")
	if err != nil || count != 1 {
		t.Fatalf("count = %d, err = %v", count, err)
	}
}

func TestMemoryCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCustomerRepository([]model.Customer{{ID: "1", Name: "João"}})

	if _, err := repo.Create(ctx, model.Customer{ID: "1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v", err)
	}
	if _, err := repo.Create(ctx, model.Customer{ID: "2", Name: "Maria"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	customers, _ := repo.List(ctx)
	if len(customers) != 2 {
		t.Fatalf("len = %d", len(customers))
	}
	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := repo.Delete(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestMemoryIdempotencyStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if _, ok, _ := store.Lookup(ctx, "k"); ok {
		t.Fatal("unexpected hit")
	}
	_ = store.Remember(ctx, "k", "OS-001")
	if id, ok, _ := store.Lookup(ctx, "k"); !ok || id != "OS-001" {
		t.Fatalf("lookup = %q, %v", id, ok)
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Lookup(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryIdempotencyStoreSweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_ = store.Remember(ctx, "a", "OS-001")
	_ = store.Remember(ctx, "b", "OS-002")
	now = now.Add(2 * time.Minute)
	_ = store.Remember(ctx, "c", "OS-003")

	if len(store.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(store.entries))
	}
	if id, ok, _ := store.Lookup(ctx, "c"); !ok || id != "OS-003" {
		t.Errorf("lookup = %q, %v", id, ok)
	}
}
