package api

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/statscache"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	AuthService    services.AuthService
	DeckService    services.DeckService
	CardService    services.CardService
	SessionService services.SessionService
	StatsService   services.StatsService
	AdminService   services.AdminService
	PlatformStats  *statscache.Cache
	Tokens         *auth.Tokens
	DB             Pinger
	CookieSecure   bool
	Now            func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
