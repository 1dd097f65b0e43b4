package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/filter"
	"github.com/nurpe/icontrol-orders/internal/model"
	"github.com/nurpe/icontrol-orders/internal/repository"
)

type CustomerService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	now       func() time.Time
}

func NewCustomerService(customers repository.CustomerRepository, orders repository.OrderRepository) *CustomerService {
	return &CustomerService{
		customers: customers,
		orders:    orders,
		now:       time.Now,
	}
}

type CreateCustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Customers(customers, search), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "customer "+id)
	}
	return customer, nil
}

func (s *CustomerService) GetOrdersForCustomer(ctx context.Context, id string) ([]model.Order, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Orders(orders, filter.Criteria{CustomerID: id}), nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*model.Customer, error) {
	customer := model.Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		CreatedAt: s.now(),
	}
	if customer.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if customer.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	if customer.Email != "" && !strings.Contains(customer.Email, "@") {
		return nil, fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	return s.customers.Create(ctx, customer)
}

// DeleteCustomer refuses to remove a customer that orders still reference.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	count, err := s.orders.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: customer %s still has %d orders", ErrConflict, id, count)
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return translate(err, "customer "+id)
	}
	return nil
}

// CustomerSummary counts a customer's orders and what they spent, ignoring cancelled orders.
func (s *CustomerService) CustomerSummary(ctx context.Context, id string) (*model.CustomerSummary, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.GetOrdersForCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &model.CustomerSummary{Customer: *customer, TotalSpent: decimal.Zero}
	for _, order := range orders {
		summary.TotalOrders++
		switch order.Type {
		case model.OrderTypeMaintenance:
			summary.MaintenanceCount++
		case model.OrderTypeSale:
			summary.SaleCount++
		}
		if order.Stage() != model.StageCancelled {
			summary.TotalSpent = summary.TotalSpent.Add(order.DisplayValue())
		}
	}
	return summary, nil
}
