package api

import (
	"github.com/quotedeck/quotedeck-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Identity     *service.IdentityService
	Favorites    *service.FavoriteService
	Entitlements *service.EntitlementService
	Streak       *service.StreakService
	Badges       *service.BadgeService
}
