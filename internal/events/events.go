// Package events carries order mutations to interested parties: Kafka
// consumers, connected dashboards, or nobody at all.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/nurpe/icontrol-orders/internal/model"
)

const (
	OrderCreated       = "order.created"
	OrderUpdated       = "order.updated"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
)

type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        string          `json:"order_id"`
	OrderType      model.OrderType `json:"order_type"`
	Status         model.Status    `json:"status,omitempty"`
	PreviousStatus model.Status    `json:"previous_status,omitempty"`
	Order          *model.Order    `json:"order,omitempty"`
	EventTime      time.Time       `json:"event_time"`
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }
