package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/dhnam02/crm-api/internal/entity"
	"github.com/dhnam02/crm-api/internal/usecase"
)

type MySQLProductRepo struct {
	db *sql.DB // nil when this repo is a transactional view
	q  dbtx
}

func NewMySQLProductRepo(db *sql.DB) *MySQLProductRepo {
	return &MySQLProductRepo{db: db, q: db}
}

func (r *MySQLProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO products (id, name, price, stock, created_at)
VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Stock, p.CreatedAt)
	return err
}

func (r *MySQLProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, name, price, stock, created_at FROM products WHERE id = ?`, id)
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MySQLProductRepo) List(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.scanList(ctx, `
SELECT id, name, price, stock, created_at
FROM products ORDER BY created_at, id LIMIT ?`, limit)
}

func (r *MySQLProductRepo) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	return r.scanList(ctx, `
SELECT id, name, price, stock, created_at
FROM products WHERE stock < ? ORDER BY created_at, id`, threshold)
}

func (r *MySQLProductRepo) scanList(ctx context.Context, query string, arg any) ([]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MySQLProductRepo) AddStock(ctx context.Context, id string, delta int) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET stock = stock + ? WHERE id = ?`, delta, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *MySQLProductRepo) WithinTx(ctx context.Context, fn func(usecase.ProductRepo) error) error {
	if r.db == nil {
		return fn(r)
	}
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&MySQLProductRepo{q: tx})
	})
}

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)
