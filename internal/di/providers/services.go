package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/quotedeck/quotedeck-server/internal/service"
)

// ProvideIdentityService provides the identity resolver.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewIdentityService(db, log), nil
}

// ProvideFavoriteService provides the favorites service.
func ProvideFavoriteService(i do.Injector) (*service.FavoriteService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	identity := do.MustInvoke[*service.IdentityService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewFavoriteService(db, identity, log), nil
}

// ProvideEntitlementService provides the entitlement service.
func ProvideEntitlementService(i do.Injector) (*service.EntitlementService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	identity := do.MustInvoke[*service.IdentityService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewEntitlementService(db, identity, log), nil
}

// ProvideStreakService provides the streak calculator.
func ProvideStreakService(i do.Injector) (*service.StreakService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewStreakService(db, log), nil
}

// ProvideBadgeService provides the badge progress and claim service.
func ProvideBadgeService(i do.Injector) (*service.BadgeService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	identity := do.MustInvoke[*service.IdentityService](i)
	streak := do.MustInvoke[*service.StreakService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewBadgeService(db, identity, streak, service.PublishedContentFilter{}, log), nil
}
