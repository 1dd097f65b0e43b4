package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/icontrol-orders/internal/model"
)

type PostgresCustomerRepository struct {
	db *gorm.DB
}

func NewPostgresCustomerRepository(db *gorm.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

func (r *PostgresCustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, email, created_at
		FROM customers
		ORDER BY name ASC
	`).Scan(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *PostgresCustomerRepository) Get(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, email, created_at
		FROM customers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&customer).Error; err != nil {
		return nil, err
	}
	if customer.ID == "" {
		return nil, ErrNotFound
	}
	return &customer, nil
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, customer model.Customer) (*model.Customer, error) {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO customers (id, name, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.CreatedAt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.Get(ctx, customer.ID)
}

func (r *PostgresCustomerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM customers WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
