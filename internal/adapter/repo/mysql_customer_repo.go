package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/dhnam02/crm-api/internal/entity"
	"github.com/dhnam02/crm-api/internal/usecase"
)

type MySQLCustomerRepo struct {
	db *sql.DB // nil when this repo is a transactional view
	q  dbtx
}

func NewMySQLCustomerRepo(db *sql.DB) *MySQLCustomerRepo {
	return &MySQLCustomerRepo{db: db, q: db}
}

func (r *MySQLCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO customers (id, name, email, phone, created_at)
VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.CreatedAt)
	if isDupEntry(err) {
		// uq_customers_email: the index is the real uniqueness guarantee,
		// the EmailExists pre-check is only a fast path
		return usecase.ErrEmailTaken
	}
	return err
}

func (r *MySQLCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, name, email, phone, created_at FROM customers WHERE id = ?`, id)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *MySQLCustomerRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE email = ?)`, email).Scan(&exists)
	return exists, err
}

func (r *MySQLCustomerRepo) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, name, email, phone, created_at
FROM customers ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *MySQLCustomerRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

func (r *MySQLCustomerRepo) WithinTx(ctx context.Context, fn func(usecase.CustomerRepo) error) error {
	if r.db == nil {
		// already transactional; nested scopes join the outer transaction
		return fn(r)
	}
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&MySQLCustomerRepo{q: tx})
	})
}

var _ usecase.CustomerRepo = (*MySQLCustomerRepo)(nil)
