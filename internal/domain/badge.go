package domain

import (
	"math"
	"sort"
	"time"
)

// Badge is a named achievement unlocked by meeting several independent
// progress metrics simultaneously. Definitions are static: the product
// tracks a handful of badges, not a rules engine.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Per-metric thresholds. A zero threshold means the metric is
	// trivially met and reported at 100%.
	QuotesRequired     int `json:"quotes_required"`
	FollowsRequired    int `json:"follows_required"`
	LikesGivenRequired int `json:"likes_given_required"`
	StreakRequired     int `json:"streak_required"`

	// Reward granted on claim.
	RewardKind       EntitlementKind `json:"reward_kind"`
	RewardResourceID string          `json:"reward_resource_id"`
	RewardDuration   time.Duration   `json:"reward_duration"`
}

// AchievementID is the profile flag recorded when the badge is claimed.
func (b Badge) AchievementID() string {
	return "badge:" + b.ID
}

// BadgeCurator is the shipped badge: an engaged curator posts quotes,
// follows other journals, likes other people's quotes, and shows up on
// consecutive days.
const BadgeCurator = "curator"

//nolint:gochecknoglobals // Static badge registry
var badges = map[string]Badge{
	BadgeCurator: {
		ID:                 BadgeCurator,
		Name:               "Curator",
		Description:        "Post quotes, follow journals, like others' quotes, and keep a streak going.",
		QuotesRequired:     10,
		FollowsRequired:    5,
		LikesGivenRequired: 10,
		StreakRequired:     3,
		RewardKind:         EntitlementKindPackage,
		RewardResourceID:   "premium-pack",
		RewardDuration:     30 * 24 * time.Hour,
	},
}

// BadgeByID looks up a badge definition.
func BadgeByID(badgeID string) (Badge, bool) {
	b, ok := badges[badgeID]
	return b, ok
}

// AllBadges returns every badge definition, sorted by ID.
func AllBadges() []Badge {
	out := make([]Badge, 0, len(badges))
	for _, b := range badges {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MetricProgress is one counter measured against its threshold.
type MetricProgress struct {
	Current  int `json:"current"`
	Required int `json:"required"`
}

// Met reports whether the metric meets or exceeds its threshold.
func (m MetricProgress) Met() bool {
	return m.Current >= m.Required
}

// Percent is the metric's completion percentage, capped at 100.
// A zero requirement counts as complete.
func (m MetricProgress) Percent() float64 {
	if m.Required <= 0 {
		return 100
	}
	pct := float64(m.Current) / float64(m.Required) * 100
	return math.Min(pct, 100)
}

// BadgeProgress is the derived completion snapshot for one (user, badge)
// pair. It is computed fresh on every request and never persisted.
type BadgeProgress struct {
	BadgeID    string         `json:"badge_id"`
	Quotes     MetricProgress `json:"quotes"`
	Follows    MetricProgress `json:"follows"`
	LikesGiven MetricProgress `json:"likes_given"`
	Streak     MetricProgress `json:"streak"`
	Completed  bool           `json:"completed"`
	Percent    int            `json:"percent"` // 0-100, mean of capped per-metric percentages
	Claimed    bool           `json:"claimed"`
}

// Metrics returns the per-metric sub-records in a fixed order.
func (p *BadgeProgress) Metrics() []MetricProgress {
	return []MetricProgress{p.Quotes, p.Follows, p.LikesGiven, p.Streak}
}

// Finalize computes the Completed and Percent fields from the metrics.
func (p *BadgeProgress) Finalize() {
	metrics := p.Metrics()

	completed := true
	var sum float64
	for _, m := range metrics {
		if !m.Met() {
			completed = false
		}
		sum += m.Percent()
	}

	p.Completed = completed
	p.Percent = int(math.Round(sum / float64(len(metrics))))
}

// ClaimResult is the structured outcome of a badge claim. Expected business
// outcomes (requirements not met, already claimed, unknown user) are fields
// here, never Go errors.
type ClaimResult struct {
	Success        bool           `json:"success"`
	AlreadyClaimed bool           `json:"already_claimed,omitempty"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	Progress       *BadgeProgress `json:"progress,omitempty"`
}

// Claim failure reasons.
const (
	ClaimReasonRequirementsNotMet = "requirements not met"
	ClaimReasonUserNotFound       = "user not found"
	ClaimReasonUnknownBadge       = "unknown badge"
)
