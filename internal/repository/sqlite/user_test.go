package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/auth"
	"github.com/sakif/tastebud/internal/model"
)

// createTestUser registers an account directly against the store.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordDigest: auth.Digest(username + "-password"),
		Role:           model.RoleUser,
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %q: %v", username, err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice")

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

// Two inserts with the same username both pass a preliminary existence
// check if run concurrently; the UNIQUE constraint is the backstop and its
// failure is a plain store error, not a conflict.
func TestUserCreate_DuplicateUsernameHitsConstraint(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "bob")

	dup := &model.User{
		Username:       "bob",
		Email:          "other@example.com",
		PasswordDigest: auth.Digest("x"),
		Role:           model.RoleUser,
	}
	err := db.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("Create() should fail on duplicate username")
	}
	if errors.Is(err, apperror.ErrConflict) {
		t.Error("constraint failure should surface as a generic store error, not ErrConflict")
	}
	if n := countRows(t, db, "users"); n != 3 { // 2 seeds + bob
		t.Errorf("user count = %d, want 3", n)
	}
}

// =========================================================================
// CREDENTIAL TESTS
// =========================================================================

func TestGetByCredentials_WrongDigest(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "carol")

	_, err := db.GetByCredentials(context.Background(), "carol", auth.Digest("wrong"))
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("GetByCredentials() error = %v, want ErrUnauthorized", err)
	}
}

func TestGetByCredentials_UnknownUsername(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByCredentials(context.Background(), "nobody", auth.Digest("p"))
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("GetByCredentials() error = %v, want ErrUnauthorized", err)
	}
}

func TestGetByCredentials_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "dave")

	found, err := db.GetByCredentials(context.Background(), "dave", auth.Digest("dave-password"))
	if err != nil {
		t.Fatalf("GetByCredentials() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if !found.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", found.CreatedAt, created.CreatedAt)
	}
}

// =========================================================================
// UNIQUENESS CHECK TESTS
// =========================================================================

func TestUsernameTaken(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "erin")

	taken, err := db.UsernameTaken(context.Background(), "erin")
	if err != nil {
		t.Fatalf("UsernameTaken() error = %v", err)
	}
	if !taken {
		t.Error("UsernameTaken(erin) = false, want true")
	}

	taken, err = db.UsernameTaken(context.Background(), "free-name")
	if err != nil {
		t.Fatalf("UsernameTaken() error = %v", err)
	}
	if taken {
		t.Error("UsernameTaken(free-name) = true, want false")
	}
}

func TestEmailTaken(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "frank")

	taken, err := db.EmailTaken(context.Background(), "frank@example.com")
	if err != nil {
		t.Fatalf("EmailTaken() error = %v", err)
	}
	if !taken {
		t.Error("EmailTaken(frank@example.com) = false, want true")
	}
}

// =========================================================================
// LIST / DELETE TESTS
// =========================================================================

func TestUserList_IncludesSeedsAndNewAccounts(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "grace")

	users, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 3 {
		t.Errorf("List() returned %d users, want 3", len(users))
	}
}

func TestUserDelete_RemovesPreferencesRow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "heidi")

	prefs := &model.UserPreferences{
		UserID:              user.ID,
		DietaryRestrictions: []string{"vegan"},
		CuisinePreferences:  []string{"thai"},
		PriceRange:          []int{2, 4},
		Allergies:           []string{},
	}
	if err := db.Upsert(context.Background(), prefs); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := db.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Direct store check: no preference rows remain for the deleted id.
	var n int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM user_preferences WHERE user_id = ?`, user.ID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("counting orphaned preferences: %v", err)
	}
	if n != 0 {
		t.Errorf("preference rows after delete = %d, want 0", n)
	}

	if _, err := db.GetByCredentials(context.Background(), "heidi", auth.Digest("heidi-password")); err == nil {
		t.Error("deleted account can still authenticate")
	}
}

func TestUserDelete_NonexistentID(t *testing.T) {
	db := newTestDB(t)
	before := countRows(t, db, "users")

	err := db.Delete(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
	if after := countRows(t, db, "users"); after != before {
		t.Errorf("user count changed from %d to %d on failed delete", before, after)
	}
}
