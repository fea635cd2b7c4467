package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/metrics"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(metricsMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.authenticate)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handlePlatformStats)
		r.Get("/library/decks", s.handleLibrary)
		r.Get("/decks/search", s.handleSearchDecks)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Get("/dashboard/stats", s.handleDashboardStats)
			r.Get("/stats/me", s.handleMyStats)

			r.Post("/study/session", s.handleRecordSession)
			r.Get("/study/sessions", s.handleSessionHistory)

			r.Get("/decks", s.handleMyDecks)
			r.Post("/decks", s.handleCreateDeck)
			r.Get("/decks/{id}", s.handleGetDeck)
			r.Put("/decks/{id}", s.handleUpdateDeck)
			r.Delete("/decks/{id}", s.handleDeleteDeck)
			r.Get("/decks/{id}/study", s.handleStudySet)
			r.Post("/decks/{id}/import", s.handleImportDeck)

			r.Post("/cards", s.handleCreateCard)
			r.Get("/cards/{id}", s.handleGetCard)
			r.Put("/cards/{id}", s.handleUpdateCard)
			r.Delete("/cards/{id}", s.handleDeleteCard)

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/overview", s.handleAdminOverview)
				r.Get("/activity", s.handleAdminActivity)
				r.Post("/decks/{id}/approve", s.handleApproveDeck)
				r.Post("/decks/{id}/reject", s.handleRejectDeck)
				r.Post("/users/{id}/role", s.handleChangeRole)
				r.Delete("/users/{id}", s.handleDeleteUser)
				r.Put("/sessions/{id}", s.handleCorrectSession)
			})
		})
	})
	return r
}
