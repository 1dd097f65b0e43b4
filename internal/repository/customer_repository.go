package repository

import (
	"context"
	"sync"

	"github.com/nurpe/icontrol-orders/internal/model"
)

type CustomerRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
	Create(ctx context.Context, customer model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id string) error
}

type MemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []model.Customer
}

func NewMemoryCustomerRepository(seed []model.Customer) *MemoryCustomerRepository {
	customers := make([]model.Customer, len(seed))
	copy(customers, seed)
	return &MemoryCustomerRepository{customers: customers}
}

func (r *MemoryCustomerRepository) List(_ context.Context) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Customer, len(r.customers))
	copy(result, r.customers)
	return result, nil
}

func (r *MemoryCustomerRepository) Get(_ context.Context, id string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, customer := range r.customers {
		if customer.ID == id {
			found := customer
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCustomerRepository) Create(_ context.Context, customer model.Customer) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.customers {
		if existing.ID == customer.ID {
			return nil, ErrDuplicate
		}
	}
	r.customers = append(r.customers, customer)
	saved := customer
	return &saved, nil
}

func (r *MemoryCustomerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, customer := range r.customers {
		if customer.ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
