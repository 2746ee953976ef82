package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the order ledger on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new order ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Ledger.
var _ Ledger = (*Repo)(nil)

const orderColumns = `
	id, client_id, service_type, status, delivery_date, total_value_cents,
	total_quantity, order_number, case_id, creation_run_id, notes, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ClientID, &o.ServiceType, &o.Status, &o.DeliveryDate,
		&o.TotalValueCents, &o.TotalQuantity, &o.OrderNumber, &o.CaseID,
		&o.CreationRunID, &o.Notes, &o.CreatedAt,
	)
	return o, err
}

// MaxOrderNumber returns the highest persisted order number, or zero.
func (r *Repo) MaxOrderNumber(ctx context.Context) (int64, error) {
	var max int64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(order_number), 0) FROM orders`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max order number: %w", err)
	}
	return max, nil
}

// OrderExists checks for an existing (client, date, type[, vendor]) order.
func (r *Repo) OrderExists(ctx context.Context, clientID uuid.UUID, date time.Time, serviceType string, vendorID *uuid.UUID) (bool, error) {
	var exists bool
	var err error

	if vendorID != nil {
		query := `
			SELECT EXISTS(
				SELECT 1 FROM orders o
				JOIN order_vendor_selections s ON s.order_id = o.id
				WHERE o.client_id = $1 AND o.delivery_date = $2
				  AND o.service_type = $3 AND s.vendor_id = $4)`
		err = r.pool.QueryRow(ctx, query, clientID, date, serviceType, *vendorID).Scan(&exists)
	} else {
		query := `
			SELECT EXISTS(
				SELECT 1 FROM orders
				WHERE client_id = $1 AND delivery_date = $2 AND service_type = $3)`
		err = r.pool.QueryRow(ctx, query, clientID, date, serviceType).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return exists, nil
}

// OrderExistsInWindow checks for any order of a type within a date range.
func (r *Repo) OrderExistsInWindow(ctx context.Context, clientID uuid.UUID, serviceType string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE client_id = $1 AND service_type = $2
			  AND delivery_date BETWEEN $3 AND $4)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, clientID, serviceType, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists in window: %w", err)
	}
	return exists, nil
}

// InsertOrderTree persists an order with its selections and lines as a unit.
func (r *Repo) InsertOrderTree(ctx context.Context, params InsertOrderParams) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin insert order: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (
			client_id, service_type, status, delivery_date, total_value_cents,
			total_quantity, order_number, case_id, creation_run_id, notes
		) VALUES ($1, $2, 'scheduled', $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var orderID uuid.UUID
	if err := tx.QueryRow(ctx, orderQuery,
		params.ClientID, params.ServiceType, params.DeliveryDate,
		params.TotalValueCents, params.TotalQuantity, params.OrderNumber,
		params.CaseID, params.CreationRunID, params.Notes,
	).Scan(&orderID); err != nil {
		return uuid.Nil, fmt.Errorf("insert order: %w", err)
	}

	selectionQuery := `
		INSERT INTO order_vendor_selections (order_id, vendor_id)
		VALUES ($1, $2)
		RETURNING id`

	lineQuery := `
		INSERT INTO order_line_items (
			selection_id, item_id, custom_name, quantity, unit_value_cents,
			total_value_cents, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, sel := range params.Selections {
		var selectionID uuid.UUID
		if err := tx.QueryRow(ctx, selectionQuery, orderID, sel.VendorID).Scan(&selectionID); err != nil {
			return uuid.Nil, fmt.Errorf("insert vendor selection: %w", err)
		}

		for _, line := range sel.Lines {
			if _, err := tx.Exec(ctx, lineQuery,
				selectionID, line.ItemID, line.CustomName, line.Quantity,
				line.UnitValueCents, line.TotalValueCents, line.Note,
			); err != nil {
				return uuid.Nil, fmt.Errorf("insert line item: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit insert order: %w", err)
	}

	return orderID, nil
}

// ListByRun lists all orders created by one materialization run.
func (r *Repo) ListByRun(ctx context.Context, runID uuid.UUID) ([]Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE creation_run_id = $1
		ORDER BY order_number ASC`, orderColumns)

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list orders by run: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListOrders lists ledger orders with filters and pagination.
func (r *Repo) ListOrders(ctx context.Context, params ListOrdersParams) ([]Order, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.ClientID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, *params.ClientID)
		argIdx++
	}
	if params.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("delivery_date >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("delivery_date <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE %s
		ORDER BY delivery_date DESC, order_number DESC
		LIMIT $%d OFFSET $%d`, orderColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	items, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	items := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate orders: %w", rows.Err())
	}
	return items, nil
}
