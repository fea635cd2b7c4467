package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/services"
)

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var in services.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.Create(r.Context(), actor(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, envelope{"message": "card created", "card": card})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.Get(r.Context(), actor(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"card": card})
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.Update(r.Context(), actor(r), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "card updated", "card": card})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CardService.Delete(r.Context(), actor(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "card deleted"})
}
