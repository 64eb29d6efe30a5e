package territory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// The vertex ring is stored as a JSONB array of {lat, lon} objects.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL territory repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a territory by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Territory, error) {
	query := `
		SELECT id, owner_id, vertices, area_m2, claimed_at
		FROM territories
		WHERE id = $1 AND active
	`

	row := r.pool.QueryRow(ctx, query, id)
	t, err := scanTerritory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTerritoryNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListActive retrieves all currently-active territories.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Territory, error) {
	query := `
		SELECT id, owner_id, vertices, area_m2, claimed_at
		FROM territories
		WHERE active
		ORDER BY claimed_at DESC
	`
	return r.list(ctx, query)
}

// ListActiveExcluding retrieves active territories not owned by ownerID.
// The owner comparison is case-insensitive: persisted UUIDs may differ in
// letter case from in-memory ones.
func (r *PostgresRepository) ListActiveExcluding(ctx context.Context, ownerID string) ([]Territory, error) {
	query := `
		SELECT id, owner_id, vertices, area_m2, claimed_at
		FROM territories
		WHERE active AND lower(owner_id) <> lower($1)
		ORDER BY claimed_at DESC
	`
	return r.list(ctx, query, ownerID)
}

// Create persists a new territory.
func (r *PostgresRepository) Create(ctx context.Context, t *Territory) error {
	vertices, err := json.Marshal(t.Vertices)
	if err != nil {
		return fmt.Errorf("encoding vertices: %w", err)
	}

	query := `
		INSERT INTO territories (id, owner_id, vertices, area_m2, claimed_at, active)
		VALUES ($1, $2, $3, $4, $5, true)
	`
	_, err = r.pool.Exec(ctx, query, t.ID, t.OwnerID, vertices, t.AreaSquareMeters, t.ClaimedAt)
	return err
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]Territory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Territory
	for rows.Next() {
		t, err := scanTerritory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTerritory(row pgx.Row) (*Territory, error) {
	var t Territory
	var vertices []byte

	err := row.Scan(&t.ID, &t.OwnerID, &vertices, &t.AreaSquareMeters, &t.ClaimedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(vertices, &t.Vertices); err != nil {
		return nil, fmt.Errorf("decoding vertices: %w", err)
	}
	return &t, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
