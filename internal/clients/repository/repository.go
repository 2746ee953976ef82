package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealbenefits_backend/platform/apperr"
)

const clientNotFoundMessage = "client not found"

// Client is a client directory record joined with its status flags.
type Client struct {
	ID                uuid.UUID
	DisplayName       string
	StatusName        string
	DeliveriesAllowed bool
	ServiceType       string
	ExpirationDate    *time.Time
	Phone             string
	UpcomingConfig    []byte
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const clientColumns = `
	c.id, c.display_name, s.name, s.deliveries_allowed, c.service_type,
	c.expiration_date, c.phone, c.upcoming_order_config, c.created_at, c.updated_at`

// Repo implements the client directory repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new client directory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	if err := row.Scan(
		&c.ID, &c.DisplayName, &c.StatusName, &c.DeliveriesAllowed, &c.ServiceType,
		&c.ExpirationDate, &c.Phone, &c.UpcomingConfig, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return Client{}, err
	}
	return c, nil
}

// GetByID retrieves a client by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clients c
		JOIN client_statuses s ON s.id = c.status_id
		WHERE c.id = $1`, clientColumns)

	c, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client by id: %w", err)
	}
	return c, nil
}

// GetByPhone retrieves a client by normalized phone number.
func (r *Repo) GetByPhone(ctx context.Context, phone string) (Client, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clients c
		JOIN client_statuses s ON s.id = c.status_id
		WHERE c.phone = $1
		ORDER BY c.created_at DESC
		LIMIT 1`, clientColumns)

	c, err := scanClient(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client by phone: %w", err)
	}
	return c, nil
}

// GetByIDs retrieves clients by IDs, ordered by ID for stable processing.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Client, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clients c
		JOIN client_statuses s ON s.id = c.status_id
		WHERE c.id = ANY($1)
		ORDER BY c.id`, clientColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get clients by ids: %w", err)
	}
	defer rows.Close()

	return collectClients(rows)
}

// List retrieves a stable page of clients ordered by ID. The ordering key must
// not change between batches of one run, so the primary key is the only sort.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Client, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM clients c
		JOIN client_statuses s ON s.id = c.status_id
		ORDER BY c.id
		LIMIT $1 OFFSET $2`, clientColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	return collectClients(rows)
}

// Count returns the total number of clients in the directory.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return total, nil
}

// SetUpcomingConfig replaces the client's upcoming-order configuration document.
func (r *Repo) SetUpcomingConfig(ctx context.Context, id uuid.UUID, raw []byte) error {
	query := `
		UPDATE clients
		SET upcoming_order_config = $2, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, raw)
	if err != nil {
		return fmt.Errorf("set upcoming config: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

// ClearUpcomingConfig removes the client's upcoming-order configuration.
func (r *Repo) ClearUpcomingConfig(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE clients
		SET upcoming_order_config = NULL, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear upcoming config: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

func collectClients(rows pgx.Rows) ([]Client, error) {
	items := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate clients: %w", rows.Err())
	}
	return items, nil
}
