package service

import (
	"fmt"
	"strings"

	"github.com/nurpe/icontrol-orders/internal/model"
)

// normalize fills defaults and trims free-text fields in place.
func normalize(order *model.Order) {
	order.CustomerName = strings.TrimSpace(order.CustomerName)
	order.CustomerContact = strings.TrimSpace(order.CustomerContact)
	order.Description = strings.TrimSpace(order.Description)
	order.InternalNotes = strings.TrimSpace(order.InternalNotes)

	if order.Priority == "" {
		order.Priority = model.PriorityMedium
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = model.PaymentAwaiting
	}
	if order.Status == "" {
		order.Status = order.Type.InitialStatus()
	}

	if m := order.Maintenance; m != nil {
		m.DeviceModel = strings.TrimSpace(m.DeviceModel)
		m.IMEI = strings.TrimSpace(m.IMEI)
		m.ProblemDescription = strings.TrimSpace(m.ProblemDescription)
		m.TechnicalDiagnosis = strings.TrimSpace(m.TechnicalDiagnosis)
		m.RequiredParts = strings.TrimSpace(m.RequiredParts)
	}
	if s := order.Sale; s != nil {
		s.ProductSold = strings.TrimSpace(s.ProductSold)
	}

	if order.Description == "" {
		switch {
		case order.Maintenance != nil:
			order.Description = order.Maintenance.ProblemDescription
		case order.Sale != nil:
			order.Description = order.Sale.ProductSold
		}
	}
}

func validateOrder(order model.Order) error {
	if !order.Type.Valid() {
		return fmt.Errorf("%w: type must be one of %s or %s", ErrInvalidInput, model.OrderTypeMaintenance, model.OrderTypeSale)
	}
	if order.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if order.CustomerContact == "" {
		return fmt.Errorf("%w: customer contact is required", ErrInvalidInput)
	}
	if order.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !order.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, order.Priority)
	}
	if !order.PaymentStatus.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, order.PaymentStatus)
	}
	if !order.EstimatedValue.IsPositive() {
		return fmt.Errorf("%w: estimated value must be greater than zero", ErrInvalidInput)
	}
	if order.FinalValue != nil && order.FinalValue.IsNegative() {
		return fmt.Errorf("%w: final value must not be negative", ErrInvalidInput)
	}
	if !order.Type.HasStatus(order.Status) {
		return fmt.Errorf("%w: status %q is not valid for %s orders", ErrInvalidInput, order.Status, order.Type)
	}

	switch order.Type {
	case model.OrderTypeMaintenance:
		if order.Sale != nil {
			return fmt.Errorf("%w: sale details are not allowed on maintenance orders", ErrInvalidInput)
		}
		if order.Maintenance != nil && order.Maintenance.IMEI != "" && !validIMEI(order.Maintenance.IMEI) {
			return fmt.Errorf("%w: imei must have 15 digits", ErrInvalidInput)
		}
	case model.OrderTypeSale:
		if order.Maintenance != nil {
			return fmt.Errorf("%w: maintenance details are not allowed on sale orders", ErrInvalidInput)
		}
		if order.Sale != nil && order.Sale.ProductCondition != "" && !order.Sale.ProductCondition.Valid() {
			return fmt.Errorf("%w: unknown product condition %q", ErrInvalidInput, order.Sale.ProductCondition)
		}
	}

	if order.ExpectedCompletionDate != nil &&
		model.DateOnly(*order.ExpectedCompletionDate).Before(model.DateOnly(order.OpenDate)) {
		return fmt.Errorf("%w: expected completion date must not precede the open date", ErrInvalidInput)
	}
	return nil
}

func validIMEI(imei string) bool {
	if len(imei) != 15 {
		return false
	}
	for _, r := range imei {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
