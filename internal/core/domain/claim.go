package domain

import "time"

// Bounds of a single claim, inclusive.
const (
	MinClaimPoints = 1
	MaxClaimPoints = 10
)

// ClaimRecord is one entry of the append-only claim history. UserID is a
// plain reference; the record never owns the user.
type ClaimRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Points    int       `json:"points"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// HistoryEntry is a ClaimRecord joined with its user at read time.
// User is nil when the referenced user no longer resolves.
type HistoryEntry struct {
	ClaimRecord
	User *UserSummary `json:"user"`
}

// ValidPoints reports whether p is a grant a claim could have produced.
func ValidPoints(p int) bool {
	return p >= MinClaimPoints && p <= MaxClaimPoints
}
