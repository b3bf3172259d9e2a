package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is a leaderboard participant. TotalPoints only grows, and only through claims.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	TotalPoints    int       `json:"totalPoints"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserSummary is the slice of a User embedded into history entries.
type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Summary returns the history view of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
}
