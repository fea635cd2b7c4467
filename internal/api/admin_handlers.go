package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/services"
)

func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.AdminService.Overview(r.Context(), actor(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{
		"pendingDecks": overview.PendingDecks,
		"users":        overview.Users,
		"stats":        overview.Stats,
	})
}

func (s *Server) handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	feed, err := s.AdminService.Activity(r.Context(), actor(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"activities": feed})
}

func (s *Server) handleApproveDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.AdminService.ApproveDeck(r.Context(), actor(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "deck approved"})
}

func (s *Server) handleRejectDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.Rejection
	if err := decodeOptionalJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	reason, err := s.AdminService.RejectDeck(r.Context(), actor(r), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "deck rejected", "reason": reason})
}

func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.RoleChange
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.AdminService.ChangeRole(r.Context(), actor(r), id, in); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "role updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.AdminService.DeleteUser(r.Context(), actor(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "user deleted"})
}
