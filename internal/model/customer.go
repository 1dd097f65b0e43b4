package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerSummary struct {
	Customer         Customer        `json:"customer"`
	TotalOrders      int             `json:"total_orders"`
	MaintenanceCount int             `json:"maintenance_orders"`
	SaleCount        int             `json:"sale_orders"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}
