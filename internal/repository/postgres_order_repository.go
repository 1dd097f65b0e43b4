package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/icontrol-orders/internal/model"
)

type PostgresOrderRepository struct {
	db *gorm.DB
}

func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

type orderRow struct {
	ID                     string
	OrderType              string
	CustomerID             *string
	CustomerName           string
	CustomerContact        string
	Description            string
	Priority               string
	PaymentStatus          string
	EstimatedValue         decimal.Decimal
	FinalValue             decimal.NullDecimal
	Status                 string
	OpenDate               time.Time
	ExpectedCompletionDate *time.Time
	DeviceModel            string
	IMEI                   string `gorm:"column:imei"`
	ProblemDescription     string
	TechnicalDiagnosis     string
	RequiredParts          string
	ProductSold            string
	ProductCondition       string
	InternalNotes          string
	Version                int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

const orderColumns = `
	id,
	order_type,
	customer_id,
	customer_name,
	customer_contact,
	description,
	priority,
	payment_status,
	estimated_value,
	final_value,
	status,
	open_date,
	expected_completion_date,
	device_model,
	imei,
	problem_description,
	technical_diagnosis,
	required_parts,
	product_sold,
	product_condition,
	internal_notes,
	version,
	created_at,
	updated_at
`

func (r *PostgresOrderRepository) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	row := toOrderRow(order)
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO orders (
			id,
			order_type,
			customer_id,
			customer_name,
			customer_contact,
			description,
			priority,
			payment_status,
			estimated_value,
			final_value,
			status,
			open_date,
			expected_completion_date,
			device_model,
			imei,
			problem_description,
			technical_diagnosis,
			required_parts,
			product_sold,
			product_condition,
			internal_notes,
			version,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`,
		row.ID,
		row.OrderType,
		row.CustomerID,
		row.CustomerName,
		row.CustomerContact,
		row.Description,
		row.Priority,
		row.PaymentStatus,
		row.EstimatedValue,
		row.FinalValue,
		row.Status,
		row.OpenDate,
		row.ExpectedCompletionDate,
		row.DeviceModel,
		row.IMEI,
		row.ProblemDescription,
		row.TechnicalDiagnosis,
		row.RequiredParts,
		row.ProductSold,
		row.ProductCondition,
		row.InternalNotes,
		row.CreatedAt,
		row.UpdatedAt,
	).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.Get(ctx, order.ID)
}

func (r *PostgresOrderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, ErrNotFound
	}
	order := row.toModel()
	return &order, nil
}

func (r *PostgresOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}

func (r *PostgresOrderRepository) Update(ctx context.Context, order model.Order, expectedVersion int64) (*model.Order, error) {
	row := toOrderRow(order)
	result := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET
			customer_id = ?,
			customer_name = ?,
			customer_contact = ?,
			description = ?,
			priority = ?,
			payment_status = ?,
			estimated_value = ?,
			final_value = ?,
			status = ?,
			expected_completion_date = ?,
			device_model = ?,
			imei = ?,
			problem_description = ?,
			technical_diagnosis = ?,
			required_parts = ?,
			product_sold = ?,
			product_condition = ?,
			internal_notes = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND (? = 0 OR version = ?)
	`,
		row.CustomerID,
		row.CustomerName,
		row.CustomerContact,
		row.Description,
		row.Priority,
		row.PaymentStatus,
		row.EstimatedValue,
		row.FinalValue,
		row.Status,
		row.ExpectedCompletionDate,
		row.DeviceModel,
		row.IMEI,
		row.ProblemDescription,
		row.TechnicalDiagnosis,
		row.RequiredParts,
		row.ProductSold,
		row.ProductCondition,
		row.InternalNotes,
		row.UpdatedAt,
		row.ID,
		expectedVersion,
		expectedVersion,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, ErrVersionConflict
	}
	return r.Get(ctx, order.ID)
}

func (r *PostgresOrderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM orders WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextSequence bumps the per-type counter row; it never goes backwards, even
// after deletes.
func (r *PostgresOrderRepository) NextSequence(ctx context.Context, orderType model.OrderType) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_sequences (order_type, last_value)
		VALUES (?, 1)
		ON CONFLICT (order_type) DO UPDATE
			SET last_value = order_sequences.last_value + 1
		RETURNING last_value
	`, string(orderType)).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *PostgresOrderRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM orders WHERE customer_id = ?
	`, customerID).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toOrderRow(order model.Order) orderRow {
	row := orderRow{
		ID:                     order.ID,
		OrderType:              string(order.Type),
		CustomerID:             order.CustomerID,
		CustomerName:           order.CustomerName,
		CustomerContact:        order.CustomerContact,
		Description:            order.Description,
		Priority:               string(order.Priority),
		PaymentStatus:          string(order.PaymentStatus),
		EstimatedValue:         order.EstimatedValue,
		Status:                 string(order.Status),
		OpenDate:               order.OpenDate,
		ExpectedCompletionDate: order.ExpectedCompletionDate,
		InternalNotes:          order.InternalNotes,
		Version:                order.Version,
		CreatedAt:              order.CreatedAt,
		UpdatedAt:              order.UpdatedAt,
	}
	if order.FinalValue != nil {
		row.FinalValue = decimal.NewNullDecimal(*order.FinalValue)
	}
	if m := order.Maintenance; m != nil {
		row.DeviceModel = m.DeviceModel
		row.IMEI = m.IMEI
		row.ProblemDescription = m.ProblemDescription
		row.TechnicalDiagnosis = m.TechnicalDiagnosis
		row.RequiredParts = m.RequiredParts
	}
	if s := order.Sale; s != nil {
		row.ProductSold = s.ProductSold
		row.ProductCondition = string(s.ProductCondition)
	}
	return row
}

func (row orderRow) toModel() model.Order {
	order := model.Order{
		ID:                     row.ID,
		Type:                   model.OrderType(row.OrderType),
		CustomerID:             row.CustomerID,
		CustomerName:           row.CustomerName,
		CustomerContact:        row.CustomerContact,
		Description:            row.Description,
		Priority:               model.Priority(row.Priority),
		PaymentStatus:          model.PaymentStatus(row.PaymentStatus),
		EstimatedValue:         row.EstimatedValue,
		Status:                 model.Status(row.Status),
		OpenDate:               model.DateOnly(row.OpenDate),
		ExpectedCompletionDate: row.ExpectedCompletionDate,
		InternalNotes:          row.InternalNotes,
		Version:                row.Version,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
	if row.FinalValue.Valid {
		v := row.FinalValue.Decimal
		order.FinalValue = &v
	}
	switch order.Type {
	case model.OrderTypeMaintenance:
		order.Maintenance = &model.MaintenanceDetails{
			DeviceModel:        row.DeviceModel,
			IMEI:               row.IMEI,
			ProblemDescription: row.ProblemDescription,
			TechnicalDiagnosis: row.TechnicalDiagnosis,
			RequiredParts:      row.RequiredParts,
		}
	case model.OrderTypeSale:
		order.Sale = &model.SaleDetails{
			ProductSold:      row.ProductSold,
			ProductCondition: model.ProductCondition(row.ProductCondition),
		}
	}
	return order
}
