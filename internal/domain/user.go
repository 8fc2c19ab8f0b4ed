package domain

import "time"

// User represents an account observed by the engagement engine.
//
// Every user carries two identifiers: ID is the internal storage key
// (a prefixed nanoid, e.g. "usr-V1StGXR8_Z5jdHi6B-myT") used for all
// favorite/entitlement rows, and ExternalID is the identifier the host
// platform issues and that most of the surrounding product passes around.
// Only the identity resolver translates between them.
type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Achievement is a permanent "did you ever earn this" flag on a user's
// profile. It persists even after the associated entitlement expires.
type Achievement struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
