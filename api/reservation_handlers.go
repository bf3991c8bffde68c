package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"parkpool/auth"
	"parkpool/reservation"
)

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	s.renderCalendar(w, r, nil)
}

func (s *Server) handleSpotCalendar(w http.ResponseWriter, r *http.Request) {
	spotID, err := uuid.Parse(mux.Vars(r)["spotId"])
	if err != nil {
		writeError(w, reservation.ErrSpotNotFound)
		return
	}
	s.renderCalendar(w, r, &spotID)
}

func (s *Server) renderCalendar(w http.ResponseWriter, r *http.Request, spotID *uuid.UUID) {
	q := r.URL.Query()
	cal, err := s.reservationService.Calendar(r.Context(), currentUser(r).ID, q.Get("startDate"), q.Get("endDate"), spotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarResponse(cal))
}

func (s *Server) handleMyReservations(w http.ResponseWriter, r *http.Request) {
	s.renderUserReservations(w, r, currentUser(r).ID)
}

func (s *Server) handleUserReservations(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	userID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, auth.ErrUserNotFound)
		return
	}
	s.renderUserReservations(w, r, userID)
}

func (s *Server) renderUserReservations(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	q := r.URL.Query()
	view, err := s.reservationService.ReservationsForUser(r.Context(), userID, q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := userReservationsResponse{
		Reservations: make([]reservationData, 0, len(view.Reservations)),
		Releases:     make([]releaseData, 0, len(view.Releases)),
		OwnedSpots:   toBasicSpotList(view.OwnedSpots),
	}
	for _, res := range view.Reservations {
		resp.Reservations = append(resp.Reservations, toReservationData(res, false))
	}
	for _, rel := range view.Releases {
		resp.Releases = append(resp.Releases, toReleaseData(rel))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllReservations(w http.ResponseWriter, r *http.Request) {
	s.renderAllReservations(w, r, nil)
}

func (s *Server) handleSpotReservations(w http.ResponseWriter, r *http.Request) {
	spotID, err := uuid.Parse(mux.Vars(r)["spotId"])
	if err != nil {
		writeError(w, reservation.ErrSpotNotFound)
		return
	}
	s.renderAllReservations(w, r, &spotID)
}

func (s *Server) renderAllReservations(w http.ResponseWriter, r *http.Request, spotID *uuid.UUID) {
	if !s.requireAdmin(w, r) {
		return
	}
	q := r.URL.Query()
	view, err := s.reservationService.AllReservationsView(r.Context(), q.Get("startDate"), q.Get("endDate"), spotID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := allReservationsResponse{
		Reservations: make([]reservationData, 0, len(view.Reservations)),
		Releases:     make([]releaseData, 0, len(view.Releases)),
	}
	for _, res := range view.Reservations {
		resp.Reservations = append(resp.Reservations, toReservationData(res, true))
	}
	for _, rel := range view.Releases {
		resp.Releases = append(resp.Releases, toReleaseData(rel))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	dates, err := reservation.ParseDates(req.Dates)
	if err != nil {
		writeError(w, err)
		return
	}

	var spotID *uuid.UUID
	if req.ParkingSpotID != "" {
		id, err := uuid.Parse(req.ParkingSpotID)
		if err != nil {
			writeError(w, reservation.ErrSpotNotFound)
			return
		}
		spotID = &id
	}

	target := currentUser(r)
	if req.UserID != "" && req.UserID != target.ID.String() {
		if !target.IsAdmin() {
			writeError(w, reservation.ErrPermissionDenied)
			return
		}
		targetID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, reservation.ErrPermissionDenied)
			return
		}
		user, err := s.authService.GetUserByID(r.Context(), targetID)
		if err != nil {
			writeError(w, err)
			return
		}
		target = *user
	}

	result, err := s.reservationService.Reserve(r.Context(), target, dates, spotID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := reserveResponse{
		Reservations: make([]reservationData, 0, len(result.Assignments)),
		Message:      reservation.MsgReserved,
	}
	for _, a := range result.Assignments {
		resp.Reservations = append(resp.Reservations, reservationData{
			Date:        reservation.FormatDate(a.Date),
			ParkingSpot: toBasicSpotData(a.Spot),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	spotID, err := uuid.Parse(mux.Vars(r)["spotId"])
	if err != nil {
		writeError(w, reservation.ErrSpotNotFound)
		return
	}

	raw := r.URL.Query().Get("dates")
	if raw == "" {
		writeError(w, reservation.ErrDatesRequired)
		return
	}
	dates, err := reservation.ParseDates(strings.Split(raw, ","))
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.reservationService.Release(r.Context(), currentUser(r), spotID, dates); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: reservation.MsgReleased})
}
