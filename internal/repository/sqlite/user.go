package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/model"
	"github.com/sakif/tastebud/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new account, generating the ID and creation timestamp.
//
// Uniqueness of username and email is enforced by the schema; callers run
// their own existence checks first, so a constraint failure landing here
// means a concurrent registration won the race. That failure is surfaced
// as-is (the handler turns it into a 500, not a 409 — preserved behaviour).
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_digest, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordDigest,
		user.Role,
		user.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByCredentials authenticates by digest equality: the row must match
// both the username and the stored password digest.
func (db *DB) GetByCredentials(ctx context.Context, username, digest string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_digest, role, created_at
		 FROM users WHERE username = ? AND password_digest = ?`,
		username, digest,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Same result whether the username is unknown or the password
			// is wrong.
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("sqlite: looking up credentials for %q: %w", username, err)
	}

	return user, nil
}

// UsernameTaken reports whether any account holds the username. It is a
// separate read from the registration insert, so it cannot rule out a
// concurrent registration of the same name.
func (db *DB) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking username %q: %w", username, err)
	}
	return n > 0, nil
}

// EmailTaken reports whether any account holds the email.
func (db *DB) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email %q: %w", email, err)
	}
	return n > 0, nil
}

// List returns every account.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, email, password_digest, role, created_at FROM users`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// Delete removes an account and its preferences row as one transaction.
// The preferences row goes first — it references users(id). If the account
// doesn't exist the transaction rolls back and ErrNotFound is returned.
func (db *DB) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_preferences WHERE user_id = ?`, id,
	); err != nil {
		return fmt.Errorf("sqlite: deleting preferences for user %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("User")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of user %s: %w", id, err)
	}

	return nil
}

// scanRow covers both sql.Row and sql.Rows.
type scanRow interface {
	Scan(dest ...any) error
}

func scanUser(row scanRow) (*model.User, error) {
	var (
		u         model.User
		createdAt string
	)
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordDigest,
		&u.Role,
		&createdAt,
	); err != nil {
		return nil, err
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t

	return &u, nil
}
