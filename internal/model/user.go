// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — the `json:"..."` struct tags
// tell encoding/json how each record appears on the wire.
package model

import "time"

// Roles an account can hold. There is no endpoint that changes a role after
// creation — the only admin account comes from seeding.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
//
// The user record serializes with snake_case created_at (matching the column
// name, which is what the frontend consumes), while UserPreferences uses
// camelCase keys throughout.
//
// PasswordDigest is tagged json:"-" so it can never leak into a response,
// no matter which handler marshals the struct.
type User struct {
	ID             string           `json:"id"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	PasswordDigest string           `json:"-"`
	Role           string           `json:"role"`
	CreatedAt      time.Time        `json:"created_at"`
	Preferences    *UserPreferences `json:"preferences,omitempty"`
}

// UserPreferences is the optional one-to-one extension of a User.
//
// At most one row exists per account; updates are upserts. The string slices
// are stored comma-joined in a single text column each, and PriceRange is
// stored as a textual integer-array literal like "[1,3]" — see the sqlite
// package codec.
type UserPreferences struct {
	UserID              string   `json:"-"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	CuisinePreferences  []string `json:"cuisinePreferences"`
	PriceRange          []int    `json:"priceRange"`
	Allergies           []string `json:"allergies"`
}
