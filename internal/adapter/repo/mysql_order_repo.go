package repo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
	"github.com/dhnam02/crm-api/internal/usecase"
)

type MySQLOrderRepo struct {
	db *sql.DB
	q  dbtx
}

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo {
	return &MySQLOrderRepo{db: db, q: db}
}

// Create writes the order row and its order_products rows in one
// transaction, so a failed association rolls the order back too.
func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO orders (id, customer_id, order_date, total_amount, created_at)
VALUES (?, ?, ?, ?, ?)`,
			o.ID, o.CustomerID, o.OrderDate, o.TotalAmount, o.CreatedAt); err != nil {
			return err
		}
		if len(o.ProductIDs) == 0 {
			return nil
		}
		var sb strings.Builder
		sb.WriteString(`INSERT INTO order_products (order_id, product_id, position) VALUES `)
		args := make([]any, 0, len(o.ProductIDs)*3)
		for i, pid := range o.ProductIDs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?)")
			args = append(args, o.ID, pid, i)
		}
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

func (r *MySQLOrderRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, customer_id, order_date, total_amount, created_at
FROM orders ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	return out, r.attachProducts(ctx, out, index)
}

func (r *MySQLOrderRepo) attachProducts(ctx context.Context, orders []domain.Order, index map[string]int) error {
	ids := make([]any, 0, len(orders))
	ph := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		ph = append(ph, "?")
	}
	rows, err := r.q.QueryContext(ctx, `
SELECT order_id, product_id FROM order_products
WHERE order_id IN (`+strings.Join(ph, ",")+`) ORDER BY order_id, position`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, productID string
		if err := rows.Scan(&orderID, &productID); err != nil {
			return err
		}
		i := index[orderID]
		orders[i].ProductIDs = append(orders[i].ProductIDs, productID)
	}
	return rows.Err()
}

func (r *MySQLOrderRepo) ListSince(ctx context.Context, since time.Time, limit int) ([]usecase.OrderWithCustomer, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT o.id, o.customer_id, o.order_date, o.total_amount, o.created_at, c.email
FROM orders o
JOIN customers c ON c.id = o.customer_id
WHERE o.order_date >= ?
ORDER BY o.order_date, o.id LIMIT ?`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.OrderWithCustomer
	for rows.Next() {
		var row usecase.OrderWithCustomer
		o := &row.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount, &o.CreatedAt, &row.CustomerEmail); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MySQLOrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *MySQLOrderRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&total)
	return total, err
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
