package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/google/uuid"
)

// OrderRepository implements domain.OrderRepository for PostgreSQL. The
// aggregation queries behind the metrics engine live here; every one of
// them filters by tenant_id.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Upsert inserts or updates an order keyed by (external_id, tenant_id).
// Price, event time and customer linkage always reflect the latest payload;
// financial status keeps the stored value when the payload omits it.
func (r *OrderRepository) Upsert(ctx context.Context, o domain.Order) error {
	query := `
        INSERT INTO orders (external_id, tenant_id, total_price, financial_status, created_at, customer_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (external_id, tenant_id) DO UPDATE SET
            total_price      = EXCLUDED.total_price,
            financial_status = COALESCE(EXCLUDED.financial_status, orders.financial_status),
            created_at       = EXCLUDED.created_at,
            customer_id      = EXCLUDED.customer_id
    `

	_, err := r.db.ExecContext(ctx, query,
		o.ExternalID,
		o.TenantID,
		o.TotalPrice,
		o.FinancialStatus,
		o.CreatedAt,
		o.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}

	return nil
}

func (r *OrderRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM orders WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (r *OrderRepository) SumTotalByTenant(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	var sum float64
	query := `SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum order totals: %w", err)
	}
	return sum, nil
}

func (r *OrderRepository) SpendByCustomer(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CustomerSpend, error) {
	query := `
        SELECT customer_id, SUM(total_price), COUNT(*)
        FROM orders
        WHERE tenant_id = $1
        GROUP BY customer_id
        ORDER BY SUM(total_price) DESC
        LIMIT $2
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("spend by customer: %w", err)
	}
	defer rows.Close()

	var result []domain.CustomerSpend
	for rows.Next() {
		var s domain.CustomerSpend
		if err := rows.Scan(&s.CustomerID, &s.Total, &s.Orders); err != nil {
			return nil, fmt.Errorf("spend by customer scan: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *OrderRepository) Recent(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.Order, error) {
	query := `
        SELECT external_id, tenant_id, total_price, financial_status, created_at, customer_id
        FROM orders
        WHERE tenant_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ExternalID, &o.TenantID, &o.TotalPrice, &o.FinancialStatus, &o.CreatedAt, &o.CustomerID); err != nil {
			return nil, fmt.Errorf("recent orders scan: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *OrderRepository) CountByFinancialStatus(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	query := `
        SELECT financial_status, COUNT(*)
        FROM orders
        WHERE tenant_id = $1
        GROUP BY financial_status
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count by financial status: %w", err)
	}
	defer rows.Close()

	var result []domain.StatusCount
	for rows.Next() {
		var s domain.StatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, fmt.Errorf("count by financial status scan: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *OrderRepository) SumByDay(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]domain.DayTotal, error) {
	query := `
        SELECT EXTRACT(DAY FROM created_at)::int AS day, SUM(total_price)
        FROM orders
        WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
        GROUP BY day
        ORDER BY day
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum by day: %w", err)
	}
	defer rows.Close()

	var result []domain.DayTotal
	for rows.Next() {
		var d domain.DayTotal
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, fmt.Errorf("sum by day scan: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *OrderRepository) SumByMonth(ctx context.Context, tenantID uuid.UUID) ([]domain.MonthTotal, error) {
	query := `
        SELECT EXTRACT(MONTH FROM created_at)::int AS month, SUM(total_price)
        FROM orders
        WHERE tenant_id = $1
        GROUP BY month
        ORDER BY month
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("sum by month: %w", err)
	}
	defer rows.Close()

	var result []domain.MonthTotal
	for rows.Next() {
		var month int
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("sum by month scan: %w", err)
		}
		result = append(result, domain.MonthTotal{Month: time.Month(month), Total: total})
	}
	return result, rows.Err()
}
