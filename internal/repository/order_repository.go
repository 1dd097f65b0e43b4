package repository

import (
	"context"
	"sync"

	"github.com/nurpe/icontrol-orders/internal/idgen"
	"github.com/nurpe/icontrol-orders/internal/model"
)

// OrderRepository stores orders newest first. Update and Delete report
// ErrNotFound for unknown ids; Update reports ErrVersionConflict when
// expectedVersion is non-zero and differs from the stored version.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	Update(ctx context.Context, order model.Order, expectedVersion int64) (*model.Order, error)
	Delete(ctx context.Context, id string) error
	NextSequence(ctx context.Context, orderType model.OrderType) (int64, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
}

type MemoryOrderRepository struct {
	mu       sync.RWMutex
	orders   []model.Order
	counters map[model.OrderType]int64
}

// NewMemoryOrderRepository keeps seed in the given order (newest first) and
// starts each type's counter after the highest seeded id.
func NewMemoryOrderRepository(seed []model.Order) *MemoryOrderRepository {
	r := &MemoryOrderRepository{
		orders:   make([]model.Order, 0, len(seed)),
		counters: make(map[model.OrderType]int64),
	}
	for _, order := range seed {
		order = order.Clone()
		if order.Version == 0 {
			order.Version = 1
		}
		r.orders = append(r.orders, order)
		if orderType, n, ok := idgen.Parse(order.ID); ok && n > r.counters[orderType] {
			r.counters[orderType] = n
		}
	}
	return r
}

func (r *MemoryOrderRepository) Create(_ context.Context, order model.Order) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(order.ID) >= 0 {
		return nil, ErrDuplicate
	}
	order = order.Clone()
	order.Version = 1
	r.orders = append([]model.Order{order}, r.orders...)
	if orderType, n, ok := idgen.Parse(order.ID); ok && n > r.counters[orderType] {
		r.counters[orderType] = n
	}

	saved := order.Clone()
	return &saved, nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	order := r.orders[i].Clone()
	return &order, nil
}

func (r *MemoryOrderRepository) List(_ context.Context) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order.Clone())
	}
	return result, nil
}

func (r *MemoryOrderRepository) Update(_ context.Context, order model.Order, expectedVersion int64) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(order.ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	current := r.orders[i]
	if expectedVersion != 0 && current.Version != expectedVersion {
		return nil, ErrVersionConflict
	}

	order = order.Clone()
	order.OpenDate = current.OpenDate
	order.CreatedAt = current.CreatedAt
	order.Version = current.Version + 1
	r.orders[i] = order

	saved := order.Clone()
	return &saved, nil
}

func (r *MemoryOrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.orders = append(r.orders[:i], r.orders[i+1:]...)
	return nil
}

func (r *MemoryOrderRepository) NextSequence(_ context.Context, orderType model.OrderType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[orderType]++
	return r.counters[orderType], nil
}

func (r *MemoryOrderRepository) CountByCustomer(_ context.Context, customerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, order := range r.orders {
		if order.CustomerID != nil && *order.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryOrderRepository) indexOf(id string) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}
