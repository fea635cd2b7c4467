package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
)

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	token, expires, err := s.Tokens.Issue(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return errors.NewInternalError(err)
	}
	setSessionCookie(w, token, expires, s.CookieSecure)
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.AuthService.Register(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.startSession(w, r, user); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, envelope{"message": "account created", "user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.AuthService.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.startSession(w, r, user); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.FromContext(r.Context()); ok {
		logger.FromContext(r.Context()).Info("user logged out: id=%d", id.UserID)
	}
	clearSessionCookie(w, s.CookieSecure)
	writeOK(w, r, http.StatusOK, envelope{"message": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.AuthService.Me(r.Context(), actor(r).UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"user": user})
}
