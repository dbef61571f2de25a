package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/model"
	"github.com/sakif/tastebud/internal/repository"
)

// compile-time check that *DB implements repository.PreferenceRepository
var _ repository.PreferenceRepository = (*DB)(nil)

// Get returns the preferences row for an account, decoding the delimited
// text columns into slices. ErrNotFound when the account never set any.
func (db *DB) Get(ctx context.Context, userID string) (*model.UserPreferences, error) {
	var dietary, cuisines, priceRange, allergies string

	err := db.conn.QueryRowContext(ctx,
		`SELECT dietary_restrictions, cuisine_preferences, price_range, allergies
		 FROM user_preferences WHERE user_id = ?`,
		userID,
	).Scan(&dietary, &cuisines, &priceRange, &allergies)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("preferences")
		}
		return nil, fmt.Errorf("sqlite: getting preferences for user %s: %w", userID, err)
	}

	parsedRange, err := parsePriceRange(priceRange)
	if err != nil {
		return nil, fmt.Errorf("sqlite: decoding preferences for user %s: %w", userID, err)
	}

	return &model.UserPreferences{
		UserID:              userID,
		DietaryRestrictions: splitList(dietary),
		CuisinePreferences:  splitList(cuisines),
		PriceRange:          parsedRange,
		Allergies:           splitList(allergies),
	}, nil
}

// Upsert inserts or overwrites the account's single preferences row. The
// existence check and the write are two statements, like the original; the
// user_id primary key backstops the one-row-per-account invariant.
func (db *DB) Upsert(ctx context.Context, prefs *model.UserPreferences) error {
	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_preferences WHERE user_id = ?`, prefs.UserID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking preferences for user %s: %w", prefs.UserID, err)
	}

	if exists > 0 {
		_, err = db.conn.ExecContext(ctx,
			`UPDATE user_preferences
			 SET dietary_restrictions = ?, cuisine_preferences = ?, price_range = ?, allergies = ?
			 WHERE user_id = ?`,
			joinList(prefs.DietaryRestrictions),
			joinList(prefs.CuisinePreferences),
			encodePriceRange(prefs.PriceRange),
			joinList(prefs.Allergies),
			prefs.UserID,
		)
	} else {
		_, err = db.conn.ExecContext(ctx,
			`INSERT INTO user_preferences (user_id, dietary_restrictions, cuisine_preferences, price_range, allergies)
			 VALUES (?, ?, ?, ?, ?)`,
			prefs.UserID,
			joinList(prefs.DietaryRestrictions),
			joinList(prefs.CuisinePreferences),
			encodePriceRange(prefs.PriceRange),
			joinList(prefs.Allergies),
		)
	}
	if err != nil {
		return fmt.Errorf("sqlite: upserting preferences for user %s: %w", prefs.UserID, err)
	}

	return nil
}
