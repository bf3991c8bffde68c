package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"parkpool/spot"
)

func (s *Server) handleListSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := s.spotService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := spotListResponse{Data: make([]spotData, 0, len(spots))}
	for _, sp := range spots {
		resp.Data = append(resp.Data, toSpotData(sp))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSpot(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["spotId"])
	if err != nil {
		writeError(w, spot.ErrNotFound)
		return
	}
	sp, err := s.spotService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spotResponse{Data: toSpotData(sp)})
}

func (s *Server) handleCreateSpot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	params, ok := decodeSpotParams(w, r)
	if !ok {
		return
	}
	sp, err := s.spotService.Create(r.Context(), spot.CreateParams{Name: params.Name, OwnerID: params.OwnerID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spotResponse{
		Message: "Parking spot successfully created.",
		Data:    toSpotData(sp),
	})
}

func (s *Server) handleUpdateSpot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["spotId"])
	if err != nil {
		writeError(w, spot.ErrNotFound)
		return
	}
	params, ok := decodeSpotParams(w, r)
	if !ok {
		return
	}
	sp, err := s.spotService.Update(r.Context(), id, spot.UpdateParams{Name: params.Name, OwnerID: params.OwnerID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spotResponse{
		Message: "Parking spot successfully updated.",
		Data:    toSpotData(sp),
	})
}

func (s *Server) handleDeleteSpot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["spotId"])
	if err != nil {
		writeError(w, spot.ErrNotFound)
		return
	}
	if err := s.spotService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Parking spot successfully deleted."})
}

type decodedSpotParams struct {
	Name    string
	OwnerID *uuid.UUID
}

func decodeSpotParams(w http.ResponseWriter, r *http.Request) (decodedSpotParams, bool) {
	var req spotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return decodedSpotParams{}, false
	}
	params := decodedSpotParams{Name: req.Name}
	if req.OwnerID != nil && *req.OwnerID != "" {
		ownerID, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
			return decodedSpotParams{}, false
		}
		params.OwnerID = &ownerID
	}
	return params, true
}
