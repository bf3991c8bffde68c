// Package api exposes the reservation engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"parkpool/auth"
	"parkpool/reservation"
	"parkpool/spot"
)

// AuthService is the authentication surface the server depends on.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*auth.User, error)
	VerifyToken(token string) (uuid.UUID, auth.Role, error)
}

// SpotService is the parking-spot management surface.
type SpotService interface {
	List(ctx context.Context) ([]spot.ParkingSpot, error)
	GetByID(ctx context.Context, id uuid.UUID) (spot.ParkingSpot, error)
	Create(ctx context.Context, params spot.CreateParams) (spot.ParkingSpot, error)
	Update(ctx context.Context, id uuid.UUID, params spot.UpdateParams) (spot.ParkingSpot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReservationService is the availability and allocation surface.
type ReservationService interface {
	Reserve(ctx context.Context, target auth.User, dates []time.Time, spotID *uuid.UUID) (reservation.ReserveResult, error)
	Release(ctx context.Context, actor auth.User, spotID uuid.UUID, dates []time.Time) (reservation.ReleaseResult, error)
	Calendar(ctx context.Context, userID uuid.UUID, startStr, endStr string, spotID *uuid.UUID) (reservation.Calendar, error)
	ReservationsForUser(ctx context.Context, userID uuid.UUID, startStr, endStr string) (reservation.UserReservations, error)
	AllReservationsView(ctx context.Context, startStr, endStr string, spotID *uuid.UUID) (reservation.AllReservations, error)
}

type Server struct {
	authService        AuthService
	spotService        SpotService
	reservationService ReservationService
}

func NewServer(authService AuthService, spotService SpotService, reservationService ReservationService) *Server {
	return &Server{
		authService:        authService,
		spotService:        spotService,
		reservationService: reservationService,
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(s.authenticate)
	authed.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	authed.HandleFunc("/parking-reservations/calendar", s.handleCalendar).Methods(http.MethodGet)
	authed.HandleFunc("/parking-reservations/parking-spot/{spotId}/calendar", s.handleSpotCalendar).Methods(http.MethodGet)
	authed.HandleFunc("/parking-reservations/my-reservations", s.handleMyReservations).Methods(http.MethodGet)
	authed.HandleFunc("/parking-reservations", s.handleAllReservations).Methods(http.MethodGet)
	authed.HandleFunc("/parking-reservations", s.handleReserve).Methods(http.MethodPost)
	authed.HandleFunc("/parking-reservations/parking-spot/{spotId}", s.handleRelease).Methods(http.MethodDelete)
	authed.HandleFunc("/users/{userId}/reservations", s.handleUserReservations).Methods(http.MethodGet)
	authed.HandleFunc("/parking-spots/{spotId}/reservations", s.handleSpotReservations).Methods(http.MethodGet)

	authed.HandleFunc("/parking-spots", s.handleListSpots).Methods(http.MethodGet)
	authed.HandleFunc("/parking-spots", s.handleCreateSpot).Methods(http.MethodPost)
	authed.HandleFunc("/parking-spots/{spotId}", s.handleGetSpot).Methods(http.MethodGet)
	authed.HandleFunc("/parking-spots/{spotId}", s.handleUpdateSpot).Methods(http.MethodPut)
	authed.HandleFunc("/parking-spots/{spotId}", s.handleDeleteSpot).Methods(http.MethodDelete)

	return r
}

type ctxKey int

const ctxKeyUser ctxKey = iota

// authenticate resolves the bearer token to a full user record and stores it
// on the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized."})
			return
		}
		userID, _, err := s.authService.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized."})
			return
		}
		user, err := s.authService.GetUserByID(r.Context(), userID)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized."})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUser, *user)))
	})
}

func currentUser(r *http.Request) auth.User {
	user, _ := r.Context().Value(ctxKeyUser).(auth.User)
	return user
}

// requireAdmin guards admin-only handlers; it writes the 403 itself.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !currentUser(r).IsAdmin() {
		writeJSON(w, http.StatusForbidden, errorResponse{Message: reservation.ErrPermissionDenied.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

// writeError maps domain errors onto status codes and the response bodies
// clients expect.
func writeError(w http.ResponseWriter, err error) {
	var validation *spot.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:       validation.Error(),
			ErrorMessages: validation.Messages,
		})
		return
	}

	var reserveFailed *reservation.ReservationFailedError
	if errors.As(err, &reserveFailed) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:    reserveFailed.Error(),
			ErrorDates: reserveFailed.ErrorDates(),
		})
		return
	}
	var releaseFailed *reservation.ReleaseFailedError
	if errors.As(err, &releaseFailed) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:    releaseFailed.Error(),
			ErrorDates: releaseFailed.ErrorDates(),
		})
		return
	}

	switch {
	case errors.Is(err, reservation.ErrMissingDateRange),
		errors.Is(err, reservation.ErrInvalidDate),
		errors.Is(err, reservation.ErrRangeInverted),
		errors.Is(err, reservation.ErrRangeTooLong),
		errors.Is(err, reservation.ErrDatesRequired),
		errors.Is(err, reservation.ErrBadDateFormat),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, reservation.ErrSpotNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, spot.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: reservation.ErrSpotNotFound.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "User does not exist."})
	case errors.Is(err, reservation.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid email or password."})
	default:
		log.Printf("api: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error."})
	}
}
