package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/model"
)

func TestPreferencesGet_NoneSet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "noprefs")

	_, err := db.Get(context.Background(), user.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

// Set-then-get must return exactly the same list contents — the round trip
// through delimited text preserves order and membership.
func TestPreferencesUpsert_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "roundtrip")

	in := &model.UserPreferences{
		UserID:              user.ID,
		DietaryRestrictions: []string{"vegetarian", "halal"},
		CuisinePreferences:  []string{"korean", "italian", "indian"},
		PriceRange:          []int{1, 3},
		Allergies:           []string{"nuts", "shellfish"},
	}
	if err := db.Upsert(context.Background(), in); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := db.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if !reflect.DeepEqual(got.DietaryRestrictions, in.DietaryRestrictions) {
		t.Errorf("DietaryRestrictions = %v, want %v", got.DietaryRestrictions, in.DietaryRestrictions)
	}
	if !reflect.DeepEqual(got.CuisinePreferences, in.CuisinePreferences) {
		t.Errorf("CuisinePreferences = %v, want %v", got.CuisinePreferences, in.CuisinePreferences)
	}
	if !reflect.DeepEqual(got.PriceRange, in.PriceRange) {
		t.Errorf("PriceRange = %v, want %v", got.PriceRange, in.PriceRange)
	}
	if !reflect.DeepEqual(got.Allergies, in.Allergies) {
		t.Errorf("Allergies = %v, want %v", got.Allergies, in.Allergies)
	}
}

func TestPreferencesUpsert_SecondWriteOverwrites(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "overwrite")

	first := &model.UserPreferences{
		UserID:             user.ID,
		CuisinePreferences: []string{"french"},
		PriceRange:         []int{3, 4},
	}
	if err := db.Upsert(context.Background(), first); err != nil {
		t.Fatalf("Upsert() first: %v", err)
	}

	second := &model.UserPreferences{
		UserID:              user.ID,
		DietaryRestrictions: []string{"vegan"},
		CuisinePreferences:  []string{"mexican"},
		PriceRange:          []int{1, 2},
		Allergies:           []string{"soy"},
	}
	if err := db.Upsert(context.Background(), second); err != nil {
		t.Fatalf("Upsert() second: %v", err)
	}

	got, err := db.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.CuisinePreferences, []string{"mexican"}) {
		t.Errorf("CuisinePreferences = %v, want [mexican]", got.CuisinePreferences)
	}
	if !reflect.DeepEqual(got.PriceRange, []int{1, 2}) {
		t.Errorf("PriceRange = %v, want [1 2]", got.PriceRange)
	}

	// Still exactly one row per account.
	var n int
	if err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM user_preferences WHERE user_id = ?`, user.ID,
	).Scan(&n); err != nil {
		t.Fatalf("counting preference rows: %v", err)
	}
	if n != 1 {
		t.Errorf("preference rows = %d, want 1", n)
	}
}

func TestPreferencesUpsert_EmptyFieldsDecodeEmpty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "emptyfields")

	if err := db.Upsert(context.Background(), &model.UserPreferences{UserID: user.ID}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := db.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.DietaryRestrictions) != 0 || len(got.CuisinePreferences) != 0 ||
		len(got.PriceRange) != 0 || len(got.Allergies) != 0 {
		t.Errorf("empty preferences decoded non-empty: %+v", got)
	}
	if got.DietaryRestrictions == nil || got.PriceRange == nil {
		t.Error("empty fields should decode to empty slices, not nil")
	}
}

// A corrupted price_range column fails closed instead of being evaluated.
func TestPreferencesGet_CorruptPriceRange(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "corrupt")

	_, err := db.conn.Exec(
		`INSERT INTO user_preferences (user_id, price_range) VALUES (?, ?)`,
		user.ID, "__import__('os')",
	)
	if err != nil {
		t.Fatalf("inserting corrupt row: %v", err)
	}

	if _, err := db.Get(context.Background(), user.ID); err == nil {
		t.Error("Get() accepted a non-literal price_range value")
	}
}
