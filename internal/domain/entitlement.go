package domain

import "time"

// EntitlementKind categorizes grantable resources.
type EntitlementKind string

const (
	// EntitlementKindAudio grants access to a narrated quote recording.
	EntitlementKindAudio EntitlementKind = "audio"
	// EntitlementKindPackage grants access to a content package.
	EntitlementKindPackage EntitlementKind = "package"
	// EntitlementKindSubscription grants a product-level subscription tier.
	EntitlementKindSubscription EntitlementKind = "subscription"
)

// Entitlement is a time-bounded access grant to a resource, at most one
// active row per (user, kind, resource). Granting again updates expiry and
// metadata in place instead of duplicating.
type Entitlement struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"` // internal identity
	Kind       EntitlementKind `json:"kind"`
	ResourceID string          `json:"resource_id"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"` // nil = non-expiring
	GrantedBy  string          `json:"granted_by,omitempty"` // provenance tag, e.g. "badge:curator"
	Metadata   map[string]any  `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Active reports whether the grant confers access at the given instant.
// A nil expiry never expires; expiry is evaluated at read time, there is no
// background sweep.
func (e *Entitlement) Active(now time.Time) bool {
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}

// GrantOptions carries the optional fields of a grant.
type GrantOptions struct {
	ExpiresAt *time.Time
	GrantedBy string
	Metadata  map[string]any
}
