package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"parkpool/auth"
	"parkpool/spot"
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SpotDirectory is the spot lookup the engine needs; *spot.PGRepository
// satisfies it.
type SpotDirectory interface {
	List(ctx context.Context) ([]spot.ParkingSpot, error)
	GetByID(ctx context.Context, id uuid.UUID) (spot.ParkingSpot, error)
}

// Notifier delivers a rendered notification text. Delivery failures never
// fail the operation that produced the message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Service struct {
	pool     TxBeginner
	repo     Repository
	spots    SpotDirectory
	notifier Notifier
	now      func() time.Time
}

func NewService(pool TxBeginner, repo Repository, spots SpotDirectory, notifier Notifier) *Service {
	return &Service{
		pool:     pool,
		repo:     repo,
		spots:    spots,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDates parses a list of YYYY-MM-DD strings for a mutation request.
func ParseDates(raw []string) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, ErrDatesRequired
	}
	dates := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		d, err := ParseDate(r)
		if err != nil {
			return nil, ErrBadDateFormat
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Reserve allocates a spot for the target user on each requested date, all or
// nothing. With spotID set, only that spot is considered; otherwise spots are
// tried in ascending order of total historical reservations. Owner reclaims
// of released days delete the release instead of creating a reservation.
// On success a notification is rendered and sent best-effort.
func (s *Service) Reserve(ctx context.Context, target auth.User, dates []time.Time, spotID *uuid.UUID) (ReserveResult, error) {
	if len(dates) == 0 {
		return ReserveResult{}, ErrDatesRequired
	}
	dates = normalizeDates(dates)

	spots, err := s.spots.List(ctx)
	if err != nil {
		return ReserveResult{}, err
	}
	var pinned *spot.ParkingSpot
	if spotID != nil {
		sp, ok := findSpot(spots, *spotID)
		if !ok {
			return ReserveResult{}, ErrSpotNotFound
		}
		pinned = &sp
	}

	snap, err := s.loadSnapshot(ctx, spots, DateRange{Start: dates[0], End: dates[len(dates)-1]}, nil)
	if err != nil {
		return ReserveResult{}, err
	}
	counts, err := s.repo.CountReservationsBySpot(ctx)
	if err != nil {
		return ReserveResult{}, err
	}

	plan, err := PlanReservations(snap, dates, pinned, target.ID, counts)
	if err != nil {
		return ReserveResult{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ReserveResult{}, fmt.Errorf("reservation: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range plan.Creates {
		if err := s.repo.InsertReservation(ctx, tx, a.Spot.ID, target.ID, a.Date); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				return ReserveResult{}, &ReservationFailedError{Dates: []time.Time{a.Date}}
			}
			return ReserveResult{}, err
		}
	}
	for _, a := range plan.Reclaims {
		ok, err := s.repo.DeleteReleaseIfUnreserved(ctx, tx, a.Spot.ID, a.Date)
		if err != nil {
			return ReserveResult{}, err
		}
		if !ok {
			return ReserveResult{}, &ReservationFailedError{Dates: []time.Time{a.Date}}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ReserveResult{}, fmt.Errorf("reservation: commit tx: %w", err)
	}

	text := reservationNotification(target.Name, plan.Assignments)
	s.notify(ctx, text)
	return ReserveResult{Assignments: plan.Assignments, Notification: text}, nil
}

// Release handles the requested dates for one spot, all or nothing: an
// existing reservation is removed when it belongs to the actor or the actor
// is an admin; otherwise an owned spot is freed for the day when the actor
// owns it or is an admin. On success a notification is rendered and sent
// best-effort.
func (s *Service) Release(ctx context.Context, actor auth.User, spotID uuid.UUID, dates []time.Time) (ReleaseResult, error) {
	if len(dates) == 0 {
		return ReleaseResult{}, ErrDatesRequired
	}
	dates = normalizeDates(dates)

	sp, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, spot.ErrNotFound) {
			return ReleaseResult{}, ErrSpotNotFound
		}
		return ReleaseResult{}, err
	}

	snap, err := s.loadSnapshot(ctx, []spot.ParkingSpot{sp}, DateRange{Start: dates[0], End: dates[len(dates)-1]}, &sp.ID)
	if err != nil {
		return ReleaseResult{}, err
	}

	plan, err := PlanRelease(snap, dates, sp, actor.ID, actor.IsAdmin())
	if err != nil {
		return ReleaseResult{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ReleaseResult{}, fmt.Errorf("reservation: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, res := range plan.DeleteReservations {
		ok, err := s.repo.DeleteReservation(ctx, tx, res.SpotID, res.UserID, res.Date)
		if err != nil {
			return ReleaseResult{}, err
		}
		if !ok {
			return ReleaseResult{}, &ReleaseFailedError{Dates: []time.Time{res.Date}}
		}
	}
	for _, d := range plan.CreateReleases {
		if err := s.repo.InsertRelease(ctx, tx, sp.ID, d); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				return ReleaseResult{}, &ReleaseFailedError{Dates: []time.Time{d}}
			}
			return ReleaseResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ReleaseResult{}, fmt.Errorf("reservation: commit tx: %w", err)
	}

	text := releaseNotification(sp.Name, dates)
	s.notify(ctx, text)
	return ReleaseResult{Notification: text}, nil
}

// Calendar builds the availability calendar for one user. With spotID set,
// only that spot counts toward availability while the user's own holdings
// still span all spots.
func (s *Service) Calendar(ctx context.Context, userID uuid.UUID, startStr, endStr string, spotID *uuid.UUID) (Calendar, error) {
	rng, err := ValidateRange(startStr, endStr)
	if err != nil {
		return Calendar{}, err
	}

	spots, err := s.spots.List(ctx)
	if err != nil {
		return Calendar{}, err
	}
	if spotID != nil {
		if _, ok := findSpot(spots, *spotID); !ok {
			return Calendar{}, ErrSpotNotFound
		}
	}

	snap, err := s.loadSnapshot(ctx, spots, rng, nil)
	if err != nil {
		return Calendar{}, err
	}
	return snap.BuildCalendar(rng, userID, spotID), nil
}

// ReservationsForUser is the per-user reservations view. The start bound
// defaults to today when empty; the end bound is required.
func (s *Service) ReservationsForUser(ctx context.Context, userID uuid.UUID, startStr, endStr string) (UserReservations, error) {
	rng, err := ValidateRangeFrom(startStr, endStr, s.today())
	if err != nil {
		return UserReservations{}, err
	}

	spots, err := s.spots.List(ctx)
	if err != nil {
		return UserReservations{}, err
	}
	all, err := s.repo.ListReservations(ctx, Filter{Start: rng.Start, End: rng.End})
	if err != nil {
		return UserReservations{}, err
	}
	releases, err := s.repo.ListReleases(ctx, Filter{Start: rng.Start, End: rng.End})
	if err != nil {
		return UserReservations{}, err
	}

	out := UserReservations{
		Reservations: []DayReservation{},
		Releases:     []ReleaseView{},
		OwnedSpots:   []spot.ParkingSpot{},
	}
	owned := map[uuid.UUID]bool{}
	for _, sp := range spots {
		if sp.OwnedBy(userID) {
			owned[sp.ID] = true
			out.OwnedSpots = append(out.OwnedSpots, sp)
		}
	}
	for _, res := range all {
		if res.UserID == userID {
			out.Reservations = append(out.Reservations, res)
		}
	}
	for _, rel := range releases {
		if owned[rel.SpotID] {
			out.Releases = append(out.Releases, annotateRelease(rel, all))
		}
	}
	return out, nil
}

// AllReservationsView is the administrative listing across all users,
// optionally restricted to one spot. The start bound defaults to today when
// empty.
func (s *Service) AllReservationsView(ctx context.Context, startStr, endStr string, spotID *uuid.UUID) (AllReservations, error) {
	rng, err := ValidateRangeFrom(startStr, endStr, s.today())
	if err != nil {
		return AllReservations{}, err
	}
	if spotID != nil {
		if _, err := s.spots.GetByID(ctx, *spotID); err != nil {
			if errors.Is(err, spot.ErrNotFound) {
				return AllReservations{}, ErrSpotNotFound
			}
			return AllReservations{}, err
		}
	}

	f := Filter{Start: rng.Start, End: rng.End, SpotID: spotID}
	reservations, err := s.repo.ListReservations(ctx, f)
	if err != nil {
		return AllReservations{}, err
	}
	releases, err := s.repo.ListReleases(ctx, f)
	if err != nil {
		return AllReservations{}, err
	}

	out := AllReservations{Reservations: reservations, Releases: []ReleaseView{}}
	for _, rel := range releases {
		out.Releases = append(out.Releases, annotateRelease(rel, reservations))
	}
	return out, nil
}

// PurgeOlderThan removes reservations and releases dated more than
// retentionDays before today.
func (s *Service) PurgeOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.today().AddDate(0, 0, -retentionDays)
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

func (s *Service) loadSnapshot(ctx context.Context, spots []spot.ParkingSpot, rng DateRange, spotID *uuid.UUID) (*Snapshot, error) {
	f := Filter{Start: rng.Start, End: rng.End, SpotID: spotID}
	reservations, err := s.repo.ListReservations(ctx, f)
	if err != nil {
		return nil, err
	}
	releases, err := s.repo.ListReleases(ctx, f)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(spots, reservations, releases), nil
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, text); err != nil {
		log.Printf("reservation: send notification: %v", err)
	}
}

func annotateRelease(rel DayRelease, reservations []DayReservation) ReleaseView {
	view := ReleaseView{Release: rel}
	for i := range reservations {
		res := reservations[i]
		if res.SpotID == rel.SpotID && res.Date.Equal(rel.Date) {
			view.Reservation = &res
			break
		}
	}
	return view
}

func findSpot(spots []spot.ParkingSpot, id uuid.UUID) (spot.ParkingSpot, bool) {
	for _, sp := range spots {
		if sp.ID == id {
			return sp, true
		}
	}
	return spot.ParkingSpot{}, false
}
