package api

import (
	"net/http"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

const statsUnavailable = "statistics are temporarily unavailable"

type platformStatsResponse struct {
	Success bool `json:"success"`
	models.PlatformStats
	Cached bool   `json:"cached,omitempty"`
	Error  string `json:"error,omitempty"`
}

type dashboardResponse struct {
	Success bool `json:"success"`
	models.DashboardStats
	LastUpdated time.Time `json:"lastUpdated"`
	Error       string    `json:"error,omitempty"`
}

// handlePlatformStats serves the cached platform counters. A failed refresh
// still answers 200 with success=false and the last known numbers.
func (s *Server) handlePlatformStats(w http.ResponseWriter, r *http.Request) {
	res := s.PlatformStats.Get(r.Context())

	out := platformStatsResponse{
		Success:       !res.Stale,
		PlatformStats: res.Stats,
		Cached:        res.Cached,
	}
	if res.Stale {
		out.Error = statsUnavailable
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleDashboardStats never fails the request: storage errors degrade to
// zeroed widgets with an error message.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	out := dashboardResponse{Success: true, LastUpdated: s.now()}
	stats, err := s.StatsService.DashboardStats(r.Context(), actor(r).UserID)
	if err != nil {
		log.Error("dashboard stats degraded: %v", err)
		out.Error = statsUnavailable
	} else {
		out.DashboardStats = stats
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	userID := actor(r).UserID

	stats, err := s.StatsService.UserStats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	today, err := s.StatsService.TodayStats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"stats": stats, "today": today})
}
