package claim

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL claim repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a claim by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Claim, error) {
	query := `
		SELECT id, session_id, owner_id, territory_id, area_m2, point_count, started_at, recorded_at
		FROM claims
		WHERE id = $1
	`

	var c Claim
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.SessionID, &c.OwnerID, &c.TerritoryID,
		&c.AreaSquareMeters, &c.PointCount, &c.StartedAt, &c.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner retrieves all claims recorded by an owner, newest first.
// The owner comparison is case-insensitive.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Claim, error) {
	query := `
		SELECT id, session_id, owner_id, territory_id, area_m2, point_count, started_at, recorded_at
		FROM claims
		WHERE lower(owner_id) = lower($1)
		ORDER BY recorded_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		var c Claim
		err := rows.Scan(
			&c.ID, &c.SessionID, &c.OwnerID, &c.TerritoryID,
			&c.AreaSquareMeters, &c.PointCount, &c.StartedAt, &c.RecordedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create persists a new claim record.
func (r *PostgresRepository) Create(ctx context.Context, c *Claim) error {
	query := `
		INSERT INTO claims (id, session_id, owner_id, territory_id, area_m2, point_count, started_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.SessionID, c.OwnerID, c.TerritoryID,
		c.AreaSquareMeters, c.PointCount, c.StartedAt, c.RecordedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
