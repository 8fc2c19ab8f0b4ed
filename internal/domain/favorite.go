package domain

import "time"

// Favorite is a "like" on a quote, one row per (user, normalized key).
//
// The normalized key collapses typographic variants of the same quote, so
// re-liking "Life is hard." after liking "life is hard" is a no-op upsert
// rather than a second row. Text and Author keep the original form for
// display only; equality always goes through NormalizedKey.
type Favorite struct {
	UserID        string    `json:"user_id"` // internal identity
	NormalizedKey string    `json:"normalized_key"`
	Text          string    `json:"text"`
	Author        string    `json:"author,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
