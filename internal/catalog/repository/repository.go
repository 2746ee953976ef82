package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealbenefits_backend/platform/apperr"
)

const (
	vendorNotFoundMessage = "vendor not found"
	itemNotFoundMessage   = "catalog item not found"
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const vendorColumns = `
	id, name, email, delivery_days, cutoff_hours, active, minimum_order_cents, created_at, updated_at`

func scanVendor(row pgx.Row) (Vendor, error) {
	var v Vendor
	err := row.Scan(
		&v.ID, &v.Name, &v.Email, &v.DeliveryDays, &v.CutoffHours,
		&v.Active, &v.MinimumOrderCents, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// ListVendors lists all vendors, active and inactive.
func (r *Repo) ListVendors(ctx context.Context) ([]Vendor, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors ORDER BY name ASC`, vendorColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	items := make([]Vendor, 0)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		items = append(items, v)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate vendors: %w", rows.Err())
	}

	return items, nil
}

// GetVendorByID retrieves a vendor by ID.
func (r *Repo) GetVendorByID(ctx context.Context, id uuid.UUID) (Vendor, error) {
	query := fmt.Sprintf(`SELECT %s FROM vendors WHERE id = $1`, vendorColumns)

	v, err := scanVendor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, apperr.NotFound(vendorNotFoundMessage)
		}
		return Vendor{}, fmt.Errorf("get vendor by id: %w", err)
	}
	return v, nil
}

// CreateVendor creates a vendor.
func (r *Repo) CreateVendor(ctx context.Context, params CreateVendorParams) (Vendor, error) {
	query := fmt.Sprintf(`
		INSERT INTO vendors (name, email, delivery_days, cutoff_hours, active, minimum_order_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, vendorColumns)

	v, err := scanVendor(r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.DeliveryDays,
		params.CutoffHours, params.Active, params.MinimumOrderCents,
	))
	if err != nil {
		return Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	return v, nil
}

// UpdateVendor updates a vendor. Nil fields keep their current value;
// DeliveryDays replaces the whole set when non-nil.
func (r *Repo) UpdateVendor(ctx context.Context, params UpdateVendorParams) (Vendor, error) {
	query := fmt.Sprintf(`
		UPDATE vendors
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			delivery_days = COALESCE($4, delivery_days),
			cutoff_hours = COALESCE($5, cutoff_hours),
			active = COALESCE($6, active),
			minimum_order_cents = COALESCE($7, minimum_order_cents),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, vendorColumns)

	v, err := scanVendor(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Email, params.DeliveryDays,
		params.CutoffHours, params.Active, params.MinimumOrderCents,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, apperr.NotFound(vendorNotFoundMessage)
		}
		return Vendor{}, fmt.Errorf("update vendor: %w", err)
	}
	return v, nil
}

// DeleteVendor deletes a vendor.
func (r *Repo) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vendorNotFoundMessage)
	}
	return nil
}

const itemColumns = `
	i.id, i.name, i.vendor_id, i.value_cents, i.active, i.category_id, c.active,
	i.created_at, i.updated_at`

const itemFrom = `
	FROM items i
	LEFT JOIN item_categories c ON c.id = i.category_id`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.Name, &it.VendorID, &it.ValueCents, &it.Active,
		&it.CategoryID, &it.CategoryActive, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

// ListItems lists all catalog items with their category active flag joined in.
func (r *Repo) ListItems(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf(`SELECT %s %s ORDER BY i.name ASC`, itemColumns, itemFrom)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate items: %w", rows.Err())
	}

	return items, nil
}

// GetItemByID retrieves a catalog item by ID.
func (r *Repo) GetItemByID(ctx context.Context, id uuid.UUID) (Item, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE i.id = $1`, itemColumns, itemFrom)

	it, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(itemNotFoundMessage)
		}
		return Item{}, fmt.Errorf("get item by id: %w", err)
	}
	return it, nil
}

// CreateItem creates a catalog item.
func (r *Repo) CreateItem(ctx context.Context, params CreateItemParams) (Item, error) {
	query := `
		INSERT INTO items (name, vendor_id, value_cents, active, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query,
		params.Name, params.VendorID, params.ValueCents, params.Active, params.CategoryID,
	).Scan(&id); err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	return r.GetItemByID(ctx, id)
}

// UpdateItem updates a catalog item.
func (r *Repo) UpdateItem(ctx context.Context, params UpdateItemParams) (Item, error) {
	query := `
		UPDATE items
		SET name = COALESCE($2, name),
			vendor_id = COALESCE($3, vendor_id),
			value_cents = COALESCE($4, value_cents),
			active = COALESCE($5, active),
			category_id = COALESCE($6, category_id),
			updated_at = now()
		WHERE id = $1
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.VendorID, params.ValueCents, params.Active, params.CategoryID,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(itemNotFoundMessage)
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}

	return r.GetItemByID(ctx, id)
}

// DeleteItem deletes a catalog item.
func (r *Repo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(itemNotFoundMessage)
	}
	return nil
}

// ListCategories lists all item categories.
func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, active FROM item_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}

	return items, nil
}

// ListBoxTypes lists all box type definitions.
func (r *Repo) ListBoxTypes(ctx context.Context) ([]BoxType, error) {
	query := `
		SELECT id, name, description, active, created_at, updated_at
		FROM box_types
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list box types: %w", err)
	}
	defer rows.Close()

	items := make([]BoxType, 0)
	for rows.Next() {
		var b BoxType
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan box type: %w", err)
		}
		items = append(items, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate box types: %w", rows.Err())
	}

	return items, nil
}
