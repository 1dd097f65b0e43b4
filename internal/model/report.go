package model

import "github.com/shopspring/decimal"

// BoardColumn is one Kanban column: every maintenance order currently in Status.
type BoardColumn struct {
	Status Status  `json:"status"`
	Stage  Stage   `json:"stage"`
	Count  int     `json:"count"`
	Orders []Order `json:"orders"`
}

type Board struct {
	Columns []BoardColumn `json:"columns"`
}

type StageCount struct {
	Stage Stage           `json:"stage"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// Summary aggregates a filtered order list for the dashboard header cards.
type Summary struct {
	TotalOrders      int             `json:"total_orders"`
	MaintenanceCount int             `json:"maintenance_orders"`
	SaleCount        int             `json:"sale_orders"`
	UrgentCount      int             `json:"urgent_orders"`
	TotalValue       decimal.Decimal `json:"total_value"`
	Stages           []StageCount    `json:"stages"`
}
