// Package filter derives the visible subset of orders and customers from the
// dashboard's current selections. Every function here is pure.
package filter

import (
	"strings"
	"time"

	"github.com/nurpe/icontrol-orders/internal/model"
)

// All is the sentinel the dashboard sends for "no filter" on single-select fields.
const All = "all"

// Criteria is combined with logical AND; zero-valued fields are skipped.
type Criteria struct {
	Search        string
	Type          model.OrderType
	Statuses      []model.Status
	Stages        []model.Stage
	Priority      model.Priority
	PaymentStatus model.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	CustomerID    string
}

// RawCriteria is Criteria as it arrives from a query string.
type RawCriteria struct {
	Search        string
	Type          string
	Statuses      []string
	Stages        []string
	Priority      string
	PaymentStatus string
	DateFrom      string
	DateTo        string
	CustomerID    string
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// ParseCriteria normalises raw input. Unknown single-select values are kept
// verbatim so they match nothing; unparseable dates are dropped.
func ParseCriteria(raw RawCriteria) Criteria {
	c := Criteria{
		Search:     raw.Search,
		CustomerID: strings.TrimSpace(raw.CustomerID),
		DateFrom:   parseDate(raw.DateFrom),
		DateTo:     parseDate(raw.DateTo),
	}

	if value := selection(raw.Type); value != "" {
		if orderType, ok := model.ParseOrderType(value); ok {
			c.Type = orderType
		} else {
			c.Type = model.OrderType(value)
		}
	}
	if value := selection(raw.Priority); value != "" {
		c.Priority = model.Priority(value)
	}
	if value := selection(raw.PaymentStatus); value != "" {
		c.PaymentStatus = model.PaymentStatus(value)
	}
	for _, item := range raw.Statuses {
		value := selection(item)
		if value == "" {
			continue
		}
		if status, ok := model.ParseStatus(value); ok {
			c.Statuses = append(c.Statuses, status)
		} else {
			c.Statuses = append(c.Statuses, model.Status(value))
		}
	}
	for _, item := range raw.Stages {
		value := selection(item)
		if value == "" {
			continue
		}
		if stage, ok := model.ParseStage(value); ok {
			c.Stages = append(c.Stages, stage)
		} else {
			c.Stages = append(c.Stages, model.Stage(value))
		}
	}
	return c
}

func selection(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, All) {
		return ""
	}
	return raw
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			d := model.DateOnly(parsed)
			return &d
		}
	}
	return nil
}

// Orders returns the orders matching c, preserving input order.
func Orders(orders []model.Order, c Criteria) []model.Order {
	term := strings.ToLower(strings.TrimSpace(c.Search))
	result := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		if Match(order, c, term) {
			result = append(result, order)
		}
	}
	return result
}

// Match reports whether a single order satisfies c. term must be the lower-cased,
// trimmed search text.
func Match(order model.Order, c Criteria, term string) bool {
	return matchSearch(order, term) &&
		matchType(order, c.Type) &&
		matchStatuses(order, c.Statuses) &&
		matchStages(order, c.Stages) &&
		(c.Priority == "" || order.Priority == c.Priority) &&
		(c.PaymentStatus == "" || order.PaymentStatus == c.PaymentStatus) &&
		(c.CustomerID == "" || (order.CustomerID != nil && *order.CustomerID == c.CustomerID)) &&
		matchDate(order.OpenDate, c.DateFrom, c.DateTo)
}

func matchSearch(order model.Order, term string) bool {
	if term == "" {
		return true
	}
	fields := []string{
		order.ID,
		order.CustomerName,
		order.CustomerContact,
		order.Description,
		order.IMEI(),
		order.DeviceModel(),
		order.ProductSold(),
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchType(order model.Order, orderType model.OrderType) bool {
	return orderType == "" || order.Type == orderType
}

func matchStatuses(order model.Order, statuses []model.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, status := range statuses {
		if order.Status == status && order.Type.HasStatus(status) {
			return true
		}
	}
	return false
}

func matchStages(order model.Order, stages []model.Stage) bool {
	if len(stages) == 0 {
		return true
	}
	stage := order.Stage()
	for _, candidate := range stages {
		if stage == candidate {
			return true
		}
	}
	return false
}

func matchDate(openDate time.Time, from, to *time.Time) bool {
	day := model.DateOnly(openDate)
	if from != nil && day.Before(model.DateOnly(*from)) {
		return false
	}
	if to != nil && day.After(model.DateOnly(*to)) {
		return false
	}
	return true
}

// Customers matches name and email case-insensitively and phone as a raw substring.
func Customers(customers []model.Customer, search string) []model.Customer {
	term := strings.TrimSpace(search)
	lower := strings.ToLower(term)
	result := make([]model.Customer, 0, len(customers))
	for _, customer := range customers {
		if term == "" ||
			strings.Contains(strings.ToLower(customer.Name), lower) ||
			strings.Contains(customer.Phone, term) ||
			strings.Contains(strings.ToLower(customer.Email), lower) {
			result = append(result, customer)
		}
	}
	return result
}
