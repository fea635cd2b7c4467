package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/services"
)

func (s *Server) handleMyDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListMine(r.Context(), actor(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var in services.DeckInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.Create(r.Context(), actor(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, envelope{"message": "deck created", "deck": deck})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.Get(r.Context(), actor(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"deck": deck})
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.DeckInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.Update(r.Context(), actor(r), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "deck updated", "deck": deck})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.Delete(r.Context(), actor(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"message": "deck deleted"})
}

func (s *Server) handleStudySet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	set, err := s.DeckService.StudySet(r.Context(), actor(r), id, r.URL.Query().Get("mode"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	env := envelope{"deck": set.Deck, "mode": set.Mode, "cards": set.Cards}
	if set.Message != "" {
		env["message"] = set.Message
	}
	writeOK(w, r, http.StatusOK, env)
}

func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.Import(r.Context(), actor(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusCreated, envelope{"message": "deck imported", "deck": deck})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.Library(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"decks": decks})
}

func (s *Server) handleSearchDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, r, http.StatusOK, envelope{"decks": decks})
}
