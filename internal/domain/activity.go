package domain

import "time"

// QuotePost is a quote authored by a user. The engine reads these rows to
// count qualifying content and to exclude self-likes; the authoring write
// path belongs to the surrounding product.
type QuotePost struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"` // internal identity of the author
	Text          string    `json:"text"`
	Author        string    `json:"author,omitempty"` // the quoted person, not the posting user
	NormalizedKey string    `json:"normalized_key"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
}

// PhotoPost is a photo authored by a user, observed only as activity.
type PhotoPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow records one user following another.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CheckIn is a generic daily-activity event (the "I opened the app today"
// stream). Type distinguishes event flavors; the streak calculator only
// cares that at least one exists in a day window.
type CheckIn struct {
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
