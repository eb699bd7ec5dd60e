package models

import "time"

// InternalUser represents a user account stored in the internal database.
// Auth and identity only; preferences live in Settings.
type InternalUser struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// UserKeyValue represents a per-user configuration key-value pair.
type UserKeyValue struct {
	UserID   string    `json:"user_id"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}

// UserRecord is a generic document record for all user domain data.
// Each entity collection is a subject; each entity is a key within it.
type UserRecord struct {
	UserID   string    `json:"user_id"`
	Subject  string    `json:"subject"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Version  int       `json:"version"`
	DateTime time.Time `json:"datetime"`
}

// Settings holds a user's display preferences.
type Settings struct {
	Theme    string `json:"theme"`
	Currency string `json:"currency"`
	Language string `json:"language"`
}

// DefaultSettings returns the settings seeded for a new user.
func DefaultSettings() Settings {
	return Settings{Theme: "light", Currency: "USD", Language: "en"}
}
