package spot

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxNameLength = 200

// ValidationError aggregates the validation failures for a spot write.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "Validation failed:\n" + strings.Join(e.Messages, "\n")
}

// Service implements business logic for parking-spot management.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all parking spots in creation order.
func (s *Service) List(ctx context.Context) ([]ParkingSpot, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single parking spot.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (ParkingSpot, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and persists a new parking spot.
func (s *Service) Create(ctx context.Context, params CreateParams) (ParkingSpot, error) {
	if err := validateName(params.Name); err != nil {
		return ParkingSpot{}, err
	}
	return s.repo.Create(ctx, params)
}

// Update validates and overwrites an existing parking spot.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (ParkingSpot, error) {
	if err := validateName(params.Name); err != nil {
		return ParkingSpot{}, err
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes a parking spot along with its reservations and releases.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateName(name string) error {
	var messages []string
	if name == "" {
		messages = append(messages, "Name is required.")
	} else if len(name) > maxNameLength {
		messages = append(messages, fmt.Sprintf(
			"Name %s is too long (%d characters). Maximum length is %d.",
			name, len(name), maxNameLength,
		))
	}
	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}
