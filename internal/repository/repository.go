// Package repository declares the persistence interfaces the handlers
// depend on. The sqlite subpackage provides the single implementation;
// handler tests substitute their own.
package repository

import (
	"context"

	"github.com/sakif/tastebud/internal/model"
)

type UserRepository interface {
	// Create inserts a new account, generating ID and CreatedAt.
	Create(ctx context.Context, user *model.User) error

	// GetByCredentials returns the account matching both username and
	// password digest, or apperror.ErrUnauthorized when none matches.
	// Credential comparison is digest equality, performed by the store.
	GetByCredentials(ctx context.Context, username, digest string) (*model.User, error)

	// UsernameTaken / EmailTaken are the preliminary uniqueness reads run
	// before registration inserts. They are not atomic with the insert.
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)

	// List returns every account, digests excluded from serialization by
	// the model.
	List(ctx context.Context) ([]model.User, error)

	// Delete removes an account and its preferences row in one
	// transaction. Returns apperror.ErrNotFound when no account has the id.
	Delete(ctx context.Context, id string) error
}

type PreferenceRepository interface {
	// Get returns the preferences for an account, or apperror.ErrNotFound
	// when the account never set any.
	Get(ctx context.Context, userID string) (*model.UserPreferences, error)

	// Upsert inserts or overwrites the single preferences row of an account.
	Upsert(ctx context.Context, prefs *model.UserPreferences) error
}

type RestaurantRepository interface {
	// ListRestaurants returns the whole catalogue. The name avoids
	// clashing with UserRepository.List on the shared sqlite.DB.
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
}
