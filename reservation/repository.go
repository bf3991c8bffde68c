package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter narrows reservation and release listings. Start and End are
// inclusive; SpotID and UserID are optional.
type Filter struct {
	Start  time.Time
	End    time.Time
	SpotID *uuid.UUID
	UserID *uuid.UUID
}

type Repository interface {
	ListReservations(ctx context.Context, f Filter) ([]DayReservation, error)
	ListReleases(ctx context.Context, f Filter) ([]DayRelease, error)
	CountReservationsBySpot(ctx context.Context) (map[uuid.UUID]int, error)
	InsertReservation(ctx context.Context, tx pgx.Tx, spotID, userID uuid.UUID, date time.Time) error
	DeleteReservation(ctx context.Context, tx pgx.Tx, spotID, userID uuid.UUID, date time.Time) (bool, error)
	InsertRelease(ctx context.Context, tx pgx.Tx, spotID uuid.UUID, date time.Time) error
	DeleteReleaseIfUnreserved(ctx context.Context, tx pgx.Tx, spotID uuid.UUID, date time.Time) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListReservations(ctx context.Context, f Filter) ([]DayReservation, error) {
	base := `SELECT r.id, r.spot_id, s.name, r.user_id, u.name, u.email, r.date
             FROM day_reservations r
             JOIN parking_spots s ON s.id = r.spot_id
             JOIN users u ON u.id = r.user_id`
	where := []string{"r.date BETWEEN $1 AND $2"}
	args := []any{f.Start, f.End}

	if f.SpotID != nil {
		where = append(where, fmt.Sprintf("r.spot_id=$%d", len(args)+1))
		args = append(args, *f.SpotID)
	}
	if f.UserID != nil {
		where = append(where, fmt.Sprintf("r.user_id=$%d", len(args)+1))
		args = append(args, *f.UserID)
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY r.date, s.created_at, s.id"
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reservation: query reservations: %w", err)
	}
	defer rows.Close()

	list := []DayReservation{}
	for rows.Next() {
		var res DayReservation
		if err := rows.Scan(&res.ID, &res.SpotID, &res.SpotName, &res.UserID, &res.UserName, &res.UserEmail, &res.Date); err != nil {
			return nil, fmt.Errorf("reservation: scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func (r *PGRepository) ListReleases(ctx context.Context, f Filter) ([]DayRelease, error) {
	base := `SELECT r.id, r.spot_id, s.name, r.date
             FROM day_releases r
             JOIN parking_spots s ON s.id = r.spot_id`
	where := []string{"r.date BETWEEN $1 AND $2"}
	args := []any{f.Start, f.End}

	if f.SpotID != nil {
		where = append(where, fmt.Sprintf("r.spot_id=$%d", len(args)+1))
		args = append(args, *f.SpotID)
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY r.date, s.created_at, s.id"
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reservation: query releases: %w", err)
	}
	defer rows.Close()

	list := []DayRelease{}
	for rows.Next() {
		var rel DayRelease
		if err := rows.Scan(&rel.ID, &rel.SpotID, &rel.SpotName, &rel.Date); err != nil {
			return nil, fmt.Errorf("reservation: scan release: %w", err)
		}
		list = append(list, rel)
	}
	return list, rows.Err()
}

func (r *PGRepository) CountReservationsBySpot(ctx context.Context) (map[uuid.UUID]int, error) {
	const query = `SELECT spot_id, COUNT(*) FROM day_reservations GROUP BY spot_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reservation: query counts: %w", err)
	}
	defer rows.Close()

	counts := map[uuid.UUID]int{}
	for rows.Next() {
		var spotID uuid.UUID
		var n int
		if err := rows.Scan(&spotID, &n); err != nil {
			return nil, fmt.Errorf("reservation: scan count: %w", err)
		}
		counts[spotID] = n
	}
	return counts, rows.Err()
}

func (r *PGRepository) InsertReservation(ctx context.Context, tx pgx.Tx, spotID, userID uuid.UUID, date time.Time) error {
	const query = `
		INSERT INTO day_reservations (id, spot_id, user_id, date)
		VALUES (gen_random_uuid(), $1, $2, $3)
	`

	if _, err := tx.Exec(ctx, query, spotID, userID, date); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("reservation: insert reservation: %w", err)
	}
	return nil
}

// DeleteReservation removes the reservation only when it still belongs to the
// expected user, so a concurrent re-reservation by someone else is not
// clobbered. Returns false when no matching row existed.
func (r *PGRepository) DeleteReservation(ctx context.Context, tx pgx.Tx, spotID, userID uuid.UUID, date time.Time) (bool, error) {
	const query = `DELETE FROM day_reservations WHERE spot_id = $1 AND user_id = $2 AND date = $3`

	tag, err := tx.Exec(ctx, query, spotID, userID, date)
	if err != nil {
		return false, fmt.Errorf("reservation: delete reservation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepository) InsertRelease(ctx context.Context, tx pgx.Tx, spotID uuid.UUID, date time.Time) error {
	const query = `
		INSERT INTO day_releases (id, spot_id, date)
		VALUES (gen_random_uuid(), $1, $2)
	`

	if _, err := tx.Exec(ctx, query, spotID, date); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("reservation: insert release: %w", err)
	}
	return nil
}

// DeleteReleaseIfUnreserved removes a release row only while no reservation
// occupies the day, which makes the owner reclaim safe against a concurrent
// claim of the released day. Returns false when the release was gone or the
// day got reserved in the meantime.
func (r *PGRepository) DeleteReleaseIfUnreserved(ctx context.Context, tx pgx.Tx, spotID uuid.UUID, date time.Time) (bool, error) {
	const query = `
		DELETE FROM day_releases dr
		WHERE dr.spot_id = $1 AND dr.date = $2
		  AND NOT EXISTS (
			SELECT 1 FROM day_reservations r
			WHERE r.spot_id = dr.spot_id AND r.date = dr.date
		  )
	`

	tag, err := tx.Exec(ctx, query, spotID, date)
	if err != nil {
		return false, fmt.Errorf("reservation: delete release: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteOlderThan drops reservations and releases dated strictly before the
// cutoff and returns the number of rows removed.
func (r *PGRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	resTag, err := r.pool.Exec(ctx, `DELETE FROM day_reservations WHERE date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("reservation: purge reservations: %w", err)
	}
	total += resTag.RowsAffected()

	relTag, err := r.pool.Exec(ctx, `DELETE FROM day_releases WHERE date < $1`, cutoff)
	if err != nil {
		return total, fmt.Errorf("reservation: purge releases: %w", err)
	}
	total += relTag.RowsAffected()
	return total, nil
}
