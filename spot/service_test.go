package spot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(&fakeRepository{})

	_, err := svc.Create(context.Background(), CreateParams{Name: ""})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Messages) != 1 || vErr.Messages[0] != "Name is required." {
		t.Fatalf("unexpected messages: %v", vErr.Messages)
	}
	if vErr.Error() != "Validation failed:\nName is required." {
		t.Fatalf("unexpected error text: %q", vErr.Error())
	}

	longName := strings.Repeat("T", 201)
	_, err = svc.Create(context.Background(), CreateParams{Name: longName})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "Name " + longName + " is too long (201 characters). Maximum length is 200."
	if vErr.Messages[0] != want {
		t.Fatalf("expected %q got %q", want, vErr.Messages[0])
	}
}

func TestService_CreateAndList(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)

	ctx := context.Background()
	first, err := svc.Create(ctx, CreateParams{Name: "test space 0"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, CreateParams{Name: "test space 1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	spots, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(spots) != 2 || spots[0].ID != first.ID || spots[1].ID != second.ID {
		t.Fatalf("expected creation order listing, got %+v", spots)
	}
}

func TestService_UpdateMissing(t *testing.T) {
	svc := NewService(&fakeRepository{})

	_, err := svc.Update(context.Background(), uuid.New(), UpdateParams{Name: "renamed"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeRepository struct {
	spots []ParkingSpot
}

func (f *fakeRepository) List(context.Context) ([]ParkingSpot, error) {
	out := make([]ParkingSpot, len(f.spots))
	copy(out, f.spots)
	return out, nil
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (ParkingSpot, error) {
	for _, sp := range f.spots {
		if sp.ID == id {
			return sp, nil
		}
	}
	return ParkingSpot{}, ErrNotFound
}

func (f *fakeRepository) Create(_ context.Context, params CreateParams) (ParkingSpot, error) {
	sp := ParkingSpot{ID: uuid.New(), Name: params.Name, OwnerID: params.OwnerID}
	f.spots = append(f.spots, sp)
	return sp, nil
}

func (f *fakeRepository) Update(_ context.Context, id uuid.UUID, params UpdateParams) (ParkingSpot, error) {
	for i, sp := range f.spots {
		if sp.ID == id {
			f.spots[i].Name = params.Name
			f.spots[i].OwnerID = params.OwnerID
			return f.spots[i], nil
		}
	}
	return ParkingSpot{}, ErrNotFound
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	for i, sp := range f.spots {
		if sp.ID == id {
			f.spots = append(f.spots[:i], f.spots[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
