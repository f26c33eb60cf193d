package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// CustomerRepository reads subscribers from Postgres. The planner never
// writes customers; intake only validates that the number exists.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByNumber finds a customer by subscriber number; nil when absent.
func (r *CustomerRepository) GetByNumber(ctx context.Context, number string) (*domain.Customer, error) {
	const query = `
        SELECT number, name, address, phone, seal_number
        FROM customers WHERE number=$1`
	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, number).Scan(
		&c.Number,
		&c.Name,
		&c.Address,
		&c.Phone,
		&c.SealNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
