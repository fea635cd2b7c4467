package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/flashdeck/internal/scoring"
	"github.com/vytor/flashdeck/internal/services"
)

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var raw scoring.RawSession
	if err := decodeJSON(w, r, &raw); err != nil {
		handleError(w, r, err)
		return
	}

	id, err := s.SessionService.RecordSession(r.Context(), actor(r), raw)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, envelope{"message": "study session saved", "sessionId": id})
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := s.StatsService.RecentSessions(r.Context(), actor(r).UserID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"sessions": sessions})
}

func (s *Server) handleCorrectSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.SessionCorrection
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.SessionService.CorrectSession(r.Context(), actor(r), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "study session updated", "session": session})
}
