// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The password digest lives in PasswordHash and is tagged `json:"-"` so it
// can never leak through an API response, no matter which handler serializes
// the struct. Responses that include a user go through PublicUser instead.
//
// Email is stored lower-cased and trimmed; the UNIQUE constraint in the
// users table operates on that normalized form.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the caller-facing projection of a User — the fields returned
// from register and login responses.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Public returns the projection of u that is safe to hand to API clients.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
