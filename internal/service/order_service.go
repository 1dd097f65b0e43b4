package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/icontrol-orders/internal/events"
	"github.com/nurpe/icontrol-orders/internal/filter"
	"github.com/nurpe/icontrol-orders/internal/idgen"
	"github.com/nurpe/icontrol-orders/internal/metrics"
	"github.com/nurpe/icontrol-orders/internal/model"
	"github.com/nurpe/icontrol-orders/internal/repository"
)

type OrderService struct {
	orders      repository.OrderRepository
	customers   repository.CustomerRepository
	ids         *idgen.Generator
	idempotency repository.IdempotencyStore
	publisher   events.Publisher
	metrics     *metrics.Metrics
	excel       ExcelGenerator
	receipts    ReceiptGenerator
	log         zerolog.Logger
	strict      bool
	now         func() time.Time

	// createMu serialises keyed creates so a retried request cannot race its original.
	createMu sync.Mutex
}

type OrderServiceOptions struct {
	Idempotency       repository.IdempotencyStore
	Publisher         events.Publisher
	Metrics           *metrics.Metrics
	Excel             ExcelGenerator
	Receipts          ReceiptGenerator
	StrictTransitions bool
	Now               func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	opts OrderServiceOptions,
	log zerolog.Logger,
) *OrderService {
	s := &OrderService{
		orders:      orders,
		customers:   customers,
		ids:         idgen.New(orders),
		idempotency: opts.Idempotency,
		publisher:   opts.Publisher,
		metrics:     opts.Metrics,
		excel:       opts.Excel,
		receipts:    opts.Receipts,
		log:         log,
		strict:      opts.StrictTransitions,
		now:         opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type CreateOrderInput struct {
	IdempotencyKey         string                    `json:"-"`
	Type                   string                    `json:"type"`
	CustomerID             *string                   `json:"customer_id"`
	CustomerName           string                    `json:"customer_name"`
	CustomerContact        string                    `json:"customer_contact"`
	Description            string                    `json:"description"`
	Priority               model.Priority            `json:"priority"`
	PaymentStatus          model.PaymentStatus       `json:"payment_status"`
	Status                 model.Status              `json:"status"`
	EstimatedValue         decimal.Decimal           `json:"estimated_value"`
	FinalValue             *decimal.Decimal          `json:"final_value"`
	ExpectedCompletionDate *time.Time                `json:"expected_completion_date"`
	Maintenance            *model.MaintenanceDetails `json:"maintenance"`
	Sale                   *model.SaleDetails        `json:"sale"`
	InternalNotes          string                    `json:"internal_notes"`
}

// UpdateOrderInput is a patch: nil fields keep their current value.
// An empty CustomerID detaches the order from its customer. The Clear flags
// remove an optional value and win over the matching field.
type UpdateOrderInput struct {
	ExpectedVersion        int64                     `json:"version"`
	Type                   *string                   `json:"type"`
	CustomerID             *string                   `json:"customer_id"`
	CustomerName           *string                   `json:"customer_name"`
	CustomerContact        *string                   `json:"customer_contact"`
	Description            *string                   `json:"description"`
	Priority               *model.Priority           `json:"priority"`
	PaymentStatus          *model.PaymentStatus      `json:"payment_status"`
	Status                 *model.Status             `json:"status"`
	EstimatedValue         *decimal.Decimal          `json:"estimated_value"`
	FinalValue             *decimal.Decimal          `json:"final_value"`
	ExpectedCompletionDate *time.Time                `json:"expected_completion_date"`
	Maintenance            *MaintenancePatch         `json:"maintenance"`
	Sale                   *SalePatch                `json:"sale"`
	InternalNotes          *string                   `json:"internal_notes"`

	ClearFinalValue             bool `json:"clear_final_value"`
	ClearExpectedCompletionDate bool `json:"clear_expected_completion_date"`
}

// MaintenancePatch updates individual repair fields; nil fields are kept.
type MaintenancePatch struct {
	DeviceModel        *string `json:"device_model"`
	IMEI               *string `json:"imei"`
	ProblemDescription *string `json:"problem_description"`
	TechnicalDiagnosis *string `json:"technical_diagnosis"`
	RequiredParts      *string `json:"required_parts"`
}

func (p MaintenancePatch) apply(details *model.MaintenanceDetails) {
	setString(&details.DeviceModel, p.DeviceModel)
	setString(&details.IMEI, p.IMEI)
	setString(&details.ProblemDescription, p.ProblemDescription)
	setString(&details.TechnicalDiagnosis, p.TechnicalDiagnosis)
	setString(&details.RequiredParts, p.RequiredParts)
}

type SalePatch struct {
	ProductSold      *string                 `json:"product_sold"`
	ProductCondition *model.ProductCondition `json:"product_condition"`
}

func (p SalePatch) apply(details *model.SaleDetails) {
	setString(&details.ProductSold, p.ProductSold)
	if p.ProductCondition != nil {
		details.ProductCondition = *p.ProductCondition
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (s *OrderService) ListOrders(ctx context.Context, criteria filter.Criteria) ([]model.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Orders(orders, criteria), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "order "+id)
	}
	return order, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*model.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		s.createMu.Lock()
		defer s.createMu.Unlock()

		if existing, ok := s.replay(ctx, key); ok {
			return existing, nil
		}
	}

	orderType, ok := model.ParseOrderType(input.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type must be one of %s or %s", ErrInvalidInput, model.OrderTypeMaintenance, model.OrderTypeSale)
	}

	now := s.now()
	order := model.Order{
		Type:                   orderType,
		CustomerName:           input.CustomerName,
		CustomerContact:        input.CustomerContact,
		Description:            input.Description,
		Priority:               input.Priority,
		PaymentStatus:          input.PaymentStatus,
		EstimatedValue:         input.EstimatedValue,
		FinalValue:             input.FinalValue,
		Status:                 input.Status,
		OpenDate:               model.DateOnly(now),
		ExpectedCompletionDate: input.ExpectedCompletionDate,
		Maintenance:            input.Maintenance,
		Sale:                   input.Sale,
		InternalNotes:          input.InternalNotes,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	order = order.Clone()
	if err := s.attachCustomer(ctx, &order, input.CustomerID); err != nil {
		return nil, err
	}
	normalize(&order)
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	id, err := s.ids.Next(ctx, orderType)
	if err != nil {
		return nil, err
	}
	order.ID = id

	saved, err := s.orders.Create(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: order %s already exists", ErrConflict, id)
		}
		return nil, err
	}

	if key != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, key, saved.ID); err != nil {
			s.log.Warn().Err(err).Str("order_id", saved.ID).Msg("failed to remember idempotency key")
		}
	}

	s.metrics.OrderCreated(string(saved.Type))
	s.publish(ctx, events.OrderEvent{
		Type:      events.OrderCreated,
		OrderID:   saved.ID,
		OrderType: saved.Type,
		Status:    saved.Status,
		Order:     saved,
	})
	s.log.Info().Str("order_id", saved.ID).Str("type", string(saved.Type)).Msg("order created")
	return saved, nil
}

func (s *OrderService) replay(ctx context.Context, key string) (*model.Order, bool) {
	orderID, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency lookup failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, false
	}
	return order, true
}

func (s *OrderService) UpdateOrder(ctx context.Context, id string, input UpdateOrderInput) (*model.Order, error) {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "order "+id)
	}

	next := current.Clone()
	if input.Type != nil {
		orderType, ok := model.ParseOrderType(*input.Type)
		if !ok || orderType != current.Type {
			return nil, fmt.Errorf("%w: order type cannot change", ErrInvalidInput)
		}
	}
	if input.CustomerID != nil {
		if err := s.attachCustomer(ctx, &next, input.CustomerID); err != nil {
			return nil, err
		}
	}
	if input.CustomerName != nil {
		next.CustomerName = *input.CustomerName
	}
	if input.CustomerContact != nil {
		next.CustomerContact = *input.CustomerContact
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.Priority != nil {
		next.Priority = *input.Priority
	}
	if input.PaymentStatus != nil {
		next.PaymentStatus = *input.PaymentStatus
	}
	if input.EstimatedValue != nil {
		next.EstimatedValue = *input.EstimatedValue
	}
	switch {
	case input.ClearFinalValue:
		next.FinalValue = nil
	case input.FinalValue != nil:
		v := *input.FinalValue
		next.FinalValue = &v
	}
	switch {
	case input.ClearExpectedCompletionDate:
		next.ExpectedCompletionDate = nil
	case input.ExpectedCompletionDate != nil:
		d := *input.ExpectedCompletionDate
		next.ExpectedCompletionDate = &d
	}
	if input.Maintenance != nil {
		if next.Maintenance == nil {
			next.Maintenance = &model.MaintenanceDetails{}
		}
		input.Maintenance.apply(next.Maintenance)
	}
	if input.Sale != nil {
		if next.Sale == nil {
			next.Sale = &model.SaleDetails{}
		}
		input.Sale.apply(next.Sale)
	}
	if input.InternalNotes != nil {
		next.InternalNotes = *input.InternalNotes
	}
	if input.Status != nil {
		next.Status = *input.Status
		if err := s.checkTransition(current.Type, current.Status, next.Status); err != nil {
			return nil, err
		}
	}

	normalize(&next)
	if err := validateOrder(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()

	// A status change was checked against the version read above, so it must
	// not land on a newer one.
	expected := input.ExpectedVersion
	if input.Status != nil && expected == 0 {
		expected = current.Version
	}
	saved, err := s.orders.Update(ctx, next, expected)
	if err != nil {
		return nil, translate(err, "order "+id)
	}

	event := events.OrderEvent{
		Type:      events.OrderUpdated,
		OrderID:   saved.ID,
		OrderType: saved.Type,
		Status:    saved.Status,
		Order:     saved,
	}
	if saved.Status != current.Status {
		event.Type = events.OrderStatusChanged
		event.PreviousStatus = current.Status
		s.metrics.Transition(string(saved.Type), "applied")
	}
	s.publish(ctx, event)
	return saved, nil
}

// RequestStatusTransition applies a single status move, as issued by a Kanban drop.
// Moving an order onto its current status is a no-op.
func (s *OrderService) RequestStatusTransition(ctx context.Context, id string, target model.Status) (*model.Order, error) {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "order "+id)
	}
	if current.Status == target {
		return current, nil
	}
	if err := s.checkTransition(current.Type, current.Status, target); err != nil {
		return nil, err
	}

	next := current.Clone()
	next.Status = target
	next.UpdatedAt = s.now()

	saved, err := s.orders.Update(ctx, next, current.Version)
	if err != nil {
		return nil, translate(err, "order "+id)
	}

	s.metrics.Transition(string(saved.Type), "applied")
	s.publish(ctx, events.OrderEvent{
		Type:           events.OrderStatusChanged,
		OrderID:        saved.ID,
		OrderType:      saved.Type,
		Status:         saved.Status,
		PreviousStatus: current.Status,
		Order:          saved,
	})
	s.log.Info().
		Str("order_id", saved.ID).
		Str("from", string(current.Status)).
		Str("to", string(saved.Status)).
		Msg("order status changed")
	return saved, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return translate(err, "order "+id)
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return translate(err, "order "+id)
	}

	s.metrics.OrderDeleted()
	s.publish(ctx, events.OrderEvent{
		Type:      events.OrderDeleted,
		OrderID:   current.ID,
		OrderType: current.Type,
		Status:    current.Status,
	})
	return nil
}

// Board groups the matching maintenance orders into the Kanban columns.
// Cancelled orders have no column.
func (s *OrderService) Board(ctx context.Context, criteria filter.Criteria) (*model.Board, error) {
	orders, err := s.ListOrders(ctx, criteria)
	if err != nil {
		return nil, err
	}

	statuses := model.OrderTypeMaintenance.Statuses()
	board := &model.Board{Columns: make([]model.BoardColumn, 0, len(statuses))}
	index := make(map[model.Status]int, len(statuses))
	for _, status := range statuses {
		if status == model.StatusNotApproved {
			continue
		}
		index[status] = len(board.Columns)
		board.Columns = append(board.Columns, model.BoardColumn{
			Status: status,
			Stage:  model.StageOf(status),
			Orders: []model.Order{},
		})
	}

	for _, order := range orders {
		if order.Type != model.OrderTypeMaintenance {
			continue
		}
		i, ok := index[order.Status]
		if !ok {
			continue
		}
		board.Columns[i].Orders = append(board.Columns[i].Orders, order)
		board.Columns[i].Count++
	}
	return board, nil
}

// Summary totals the matching orders. Cancelled orders are counted but not valued.
func (s *OrderService) Summary(ctx context.Context, criteria filter.Criteria) (*model.Summary, error) {
	orders, err := s.ListOrders(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}

func summarize(orders []model.Order) *model.Summary {
	summary := &model.Summary{
		TotalValue: decimal.Zero,
		Stages:     make([]model.StageCount, len(model.Stages)),
	}
	index := make(map[model.Stage]int, len(model.Stages))
	for i, stage := range model.Stages {
		summary.Stages[i] = model.StageCount{Stage: stage, Value: decimal.Zero}
		index[stage] = i
	}

	for _, order := range orders {
		summary.TotalOrders++
		switch order.Type {
		case model.OrderTypeMaintenance:
			summary.MaintenanceCount++
		case model.OrderTypeSale:
			summary.SaleCount++
		}
		if order.Priority == model.PriorityUrgent {
			summary.UrgentCount++
		}

		stage := order.Stage()
		if i, ok := index[stage]; ok {
			summary.Stages[i].Count++
			summary.Stages[i].Value = summary.Stages[i].Value.Add(order.DisplayValue())
		}
		if stage != model.StageCancelled {
			summary.TotalValue = summary.TotalValue.Add(order.DisplayValue())
		}
	}
	return summary
}

func (s *OrderService) checkTransition(orderType model.OrderType, from, to model.Status) error {
	if !orderType.HasStatus(to) {
		s.metrics.Transition(string(orderType), "rejected")
		return fmt.Errorf("%w: status %q is not valid for %s orders", ErrInvalidInput, to, orderType)
	}
	if s.strict && !orderType.CanTransition(from, to) {
		s.metrics.Transition(string(orderType), "rejected")
		return fmt.Errorf("%w: %s cannot move from %q to %q", ErrInvalidTransition, orderType, from, to)
	}
	return nil
}

// attachCustomer links the order to an existing customer and snapshots its
// name and contact. A nil or blank id detaches the order.
func (s *OrderService) attachCustomer(ctx context.Context, order *model.Order, customerID *string) error {
	if customerID == nil || strings.TrimSpace(*customerID) == "" {
		order.CustomerID = nil
		return nil
	}
	id := strings.TrimSpace(*customerID)
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: customer %s does not exist", ErrInvalidInput, id)
		}
		return err
	}
	order.CustomerID = &id
	order.CustomerName = customer.Name
	order.CustomerContact = customer.Phone
	if order.CustomerContact == "" {
		order.CustomerContact = customer.Email
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, event events.OrderEvent) {
	if event.EventTime.IsZero() {
		event.EventTime = s.now()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("order_id", event.OrderID).Str("event", event.Type).Msg("failed to publish order event")
	}
}

func translate(err error, subject string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, subject)
	case errors.Is(err, repository.ErrVersionConflict):
		return fmt.Errorf("%w: %s was modified by someone else", ErrConflict, subject)
	default:
		return err
	}
}
