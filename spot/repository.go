package spot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals that the parking spot does not exist.
var ErrNotFound = errors.New("spot: not found")

// Repository handles data access for parking spots.
type Repository interface {
	List(ctx context.Context) ([]ParkingSpot, error)
	GetByID(ctx context.Context, id uuid.UUID) (ParkingSpot, error)
	Create(ctx context.Context, params CreateParams) (ParkingSpot, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (ParkingSpot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateParams contains write parameters for creating spots.
type CreateParams struct {
	Name    string
	OwnerID *uuid.UUID
}

// UpdateParams contains the mutable fields of a spot.
type UpdateParams struct {
	Name    string
	OwnerID *uuid.UUID
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed spot repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const spotColumns = `id, name, owner_id, created_at, updated_at`

// List returns every parking spot in creation order.
func (r *PGRepository) List(ctx context.Context) ([]ParkingSpot, error) {
	selectSQL := `SELECT ` + spotColumns + ` FROM parking_spots ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("spot: list: %w", err)
	}
	defer rows.Close()

	var spots []ParkingSpot
	for rows.Next() {
		sp, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("spot: scan: %w", err)
		}
		spots = append(spots, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("spot: list rows: %w", err)
	}

	return spots, nil
}

// GetByID retrieves a single spot.
func (r *PGRepository) GetByID(ctx context.Context, id uuid.UUID) (ParkingSpot, error) {
	selectSQL := `SELECT ` + spotColumns + ` FROM parking_spots WHERE id = $1`

	sp, err := scanSpot(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ParkingSpot{}, ErrNotFound
		}
		return ParkingSpot{}, fmt.Errorf("spot: get by id: %w", err)
	}

	return sp, nil
}

// Create inserts a new spot.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (ParkingSpot, error) {
	insertSQL := `
		INSERT INTO parking_spots (name, owner_id)
		VALUES ($1, $2)
		RETURNING ` + spotColumns

	sp, err := scanSpot(r.pool.QueryRow(ctx, insertSQL, params.Name, params.OwnerID))
	if err != nil {
		return ParkingSpot{}, fmt.Errorf("spot: create: %w", err)
	}

	return sp, nil
}

// Update overwrites the mutable fields of a spot.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (ParkingSpot, error) {
	updateSQL := `
		UPDATE parking_spots
		SET name = $2, owner_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + spotColumns

	sp, err := scanSpot(r.pool.QueryRow(ctx, updateSQL, id, params.Name, params.OwnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ParkingSpot{}, ErrNotFound
		}
		return ParkingSpot{}, fmt.Errorf("spot: update: %w", err)
	}

	return sp, nil
}

// Delete removes a spot. Reservations and releases cascade in the schema.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM parking_spots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("spot: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSpot(row pgx.Row) (ParkingSpot, error) {
	var sp ParkingSpot
	err := row.Scan(&sp.ID, &sp.Name, &sp.OwnerID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return ParkingSpot{}, err
	}
	return sp, nil
}
