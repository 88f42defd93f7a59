// Package domain contains core concepts of the messaging system.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// UserProfile is the directory record for a participant. The ID is the
// identity verifier's stable identifier and is the only identifier space
// used across the system.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Online      bool      `json:"online"`
	SyncedAt    time.Time `json:"-"`
}

// PlaceholderProfile stands in when the directory cannot resolve an
// identifier. Display data degrades, access control does not.
func PlaceholderProfile(userID string) UserProfile {
	return UserProfile{ID: userID, DisplayName: "Unknown user"}
}
