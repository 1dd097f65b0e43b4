package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MaintenanceDetails struct {
	DeviceModel        string `json:"device_model"`
	IMEI               string `json:"imei"`
	ProblemDescription string `json:"problem_description"`
	TechnicalDiagnosis string `json:"technical_diagnosis,omitempty"`
	RequiredParts      string `json:"required_parts,omitempty"`
}

type SaleDetails struct {
	ProductSold      string           `json:"product_sold"`
	ProductCondition ProductCondition `json:"product_condition,omitempty"`
}

// Order is a repair (Manutenção) or sale (Venda) record. Exactly one of
// Maintenance and Sale is set, matching Type.
type Order struct {
	ID                     string              `json:"id"`
	Type                   OrderType           `json:"type"`
	CustomerID             *string             `json:"customer_id,omitempty"`
	CustomerName           string              `json:"customer_name"`
	CustomerContact        string              `json:"customer_contact"`
	Description            string              `json:"description"`
	Priority               Priority            `json:"priority"`
	PaymentStatus          PaymentStatus       `json:"payment_status"`
	EstimatedValue         decimal.Decimal     `json:"estimated_value"`
	FinalValue             *decimal.Decimal    `json:"final_value,omitempty"`
	Status                 Status              `json:"status"`
	OpenDate               time.Time           `json:"open_date"`
	ExpectedCompletionDate *time.Time          `json:"expected_completion_date,omitempty"`
	Maintenance            *MaintenanceDetails `json:"maintenance,omitempty"`
	Sale                   *SaleDetails        `json:"sale,omitempty"`
	InternalNotes          string              `json:"internal_notes,omitempty"`
	Version                int64               `json:"version"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

// DisplayValue is the amount shown and totalled for the order: the final value
// once known, the estimate otherwise.
func (o Order) DisplayValue() decimal.Decimal {
	if o.FinalValue != nil {
		return *o.FinalValue
	}
	return o.EstimatedValue
}

func (o Order) Stage() Stage {
	return StageOf(o.Status)
}

func (o Order) IMEI() string {
	if o.Maintenance == nil {
		return ""
	}
	return o.Maintenance.IMEI
}

func (o Order) DeviceModel() string {
	if o.Maintenance == nil {
		return ""
	}
	return o.Maintenance.DeviceModel
}

func (o Order) ProductSold() string {
	if o.Sale == nil {
		return ""
	}
	return o.Sale.ProductSold
}

// Clone returns a deep copy so callers never share pointers with a store.
func (o Order) Clone() Order {
	out := o
	if o.CustomerID != nil {
		id := *o.CustomerID
		out.CustomerID = &id
	}
	if o.FinalValue != nil {
		v := *o.FinalValue
		out.FinalValue = &v
	}
	if o.ExpectedCompletionDate != nil {
		d := *o.ExpectedCompletionDate
		out.ExpectedCompletionDate = &d
	}
	if o.Maintenance != nil {
		m := *o.Maintenance
		out.Maintenance = &m
	}
	if o.Sale != nil {
		s := *o.Sale
		out.Sale = &s
	}
	return out
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
