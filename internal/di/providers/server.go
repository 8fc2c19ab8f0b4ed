package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/quotedeck/quotedeck-server/internal/api"
	"github.com/quotedeck/quotedeck-server/internal/auth"
	"github.com/quotedeck/quotedeck-server/internal/config"
	"github.com/quotedeck/quotedeck-server/internal/logger"
	"github.com/quotedeck/quotedeck-server/internal/ratelimit"
	"github.com/quotedeck/quotedeck-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Identity:     do.MustInvoke[*service.IdentityService](i),
		Favorites:    do.MustInvoke[*service.FavoriteService](i),
		Entitlements: do.MustInvoke[*service.EntitlementService](i),
		Streak:       do.MustInvoke[*service.StreakService](i),
		Badges:       do.MustInvoke[*service.BadgeService](i),
	}

	claimLimiter := ratelimit.PerMinute(cfg.RateLimit.ClaimPerMinute, cfg.RateLimit.ClaimBurst)

	handler := api.NewServer(storeHandle.Store, services, tokens, claimLimiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
