package api

import (
	"encoding/json"
	"net/http"

	"parkpool/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	user, err := s.authService.Register(r.Context(), auth.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.authService.Login(r.Context(), auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: result.Token, User: toUserData(*user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	result, err := s.authService.Login(r.Context(), auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: result.Token, User: toUserData(result.User)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserData(currentUser(r)))
}
