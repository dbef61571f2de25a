// Package sqlite implements the repository interfaces on an embedded
// single-file SQLite store.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// the binary builds without cgo and ":memory:" databases keep the tests
// free of filesystem state. The blank import below registers the driver
// with database/sql under the name "sqlite".
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and provides the repository methods. One DB is
// created at startup, shared by every request, and closed on shutdown —
// database/sql's own pooling handles concurrent statements.
type DB struct {
	conn *sql.DB
}

// New opens the store at dbPath (":memory:" for tests), configures it, and
// runs the idempotent schema/seed initialization.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every pooled connection to ":memory:" would open its own empty
	// database, so in-memory stores must stay on a single connection.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Surface a bad path or permissions problem now instead of on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight; foreign keys are
	// off by default in SQLite and the preferences table references users.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	if err := db.seed(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: seeding database: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL and releasing the
// file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the three tables. CREATE TABLE IF NOT EXISTS keeps this
// safe to run on every startup; there is no migration versioning.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT UNIQUE NOT NULL,
			email           TEXT UNIQUE NOT NULL,
			password_digest TEXT NOT NULL,
			role            TEXT NOT NULL,
			created_at      TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id              TEXT PRIMARY KEY REFERENCES users(id),
			dietary_restrictions TEXT NOT NULL DEFAULT '',
			cuisine_preferences  TEXT NOT NULL DEFAULT '',
			price_range          TEXT NOT NULL DEFAULT '',
			allergies            TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_preferences table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS restaurants (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			cuisine_type    TEXT NOT NULL,
			price_range     INTEGER NOT NULL,
			rating          REAL NOT NULL DEFAULT 0,
			address         TEXT NOT NULL DEFAULT '',
			image           TEXT NOT NULL DEFAULT '',
			dietary_options TEXT NOT NULL DEFAULT '',
			popular_dishes  TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating restaurants table: %w", err)
	}

	return nil
}

// seed inserts the two demo accounts and the restaurant catalogue.
// Seeding is keyed by presence checks (username for accounts, emptiness for
// restaurants), not a migration version, so reopening an existing store is
// a no-op.
func (db *DB) seed() error {
	if err := db.seedUser("muser", "muser@example.com",
		// SHA-256("muser") — demo password equals the username.
		"1db782830066a2843fc33ea4aea326ea9e5560bf4204a536e47b990678d6e69e",
		"user", &seedPreferences); err != nil {
		return err
	}
	if err := db.seedUser("mvc", "mvc@example.com",
		// SHA-256("mvc")
		"83b8961c373e565b63d16d8a9d850847c61625d0a313198d19cdd3756feefd18",
		"admin", nil); err != nil {
		return err
	}
	return db.seedRestaurants()
}

// seedPreferences is the demo user's pre-set preferences row.
var seedPreferences = struct {
	dietary, cuisines, priceRange, allergies string
}{
	dietary:    "vegetarian",
	cuisines:   "italian,japanese,mexican",
	priceRange: "[1,3]",
	allergies:  "nuts",
}

func (db *DB) seedUser(username, email, digest, role string, prefs *struct {
	dietary, cuisines, priceRange, allergies string
}) error {
	var exists int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking seed user %s: %w", username, err)
	}
	if exists > 0 {
		return nil
	}

	id := xid.New().String()
	_, err = db.conn.Exec(
		`INSERT INTO users (id, username, email, password_digest, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, email, digest, role, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("seeding user %s: %w", username, err)
	}

	if prefs != nil {
		_, err = db.conn.Exec(
			`INSERT INTO user_preferences (user_id, dietary_restrictions, cuisine_preferences, price_range, allergies)
			 VALUES (?, ?, ?, ?, ?)`,
			id, prefs.dietary, prefs.cuisines, prefs.priceRange, prefs.allergies,
		)
		if err != nil {
			return fmt.Errorf("seeding preferences for %s: %w", username, err)
		}
	}

	return nil
}

// seedRestaurants loads the fixed catalogue when the table is empty. The
// API never writes restaurants; this is the "out of band" population.
func (db *DB) seedRestaurants() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM restaurants`).Scan(&count); err != nil {
		return fmt.Errorf("counting restaurants: %w", err)
	}
	if count > 0 {
		return nil
	}

	rows := []struct {
		name, description, cuisines string
		priceRange                  int
		rating                      float64
		address, dietary, dishes    string
	}{
		{"Italiano Authentico", "Authentic Italian cuisine with handmade pasta and wood-fired pizza",
			"italian", 3, 4.7, "123 Pasta Street, Foodville",
			"vegetarian,gluten-free", "Margherita Pizza,Fettuccine Alfredo,Tiramisu"},
		{"Sushi Paradise", "Fresh sushi and Japanese delicacies",
			"japanese", 4, 4.9, "456 Ocean Avenue, Seafood City",
			"vegetarian,gluten-free,pescatarian", "Dragon Roll,Sashimi Platter,Miso Soup"},
		{"Taco Town", "Authentic Mexican street food",
			"mexican", 2, 4.5, "789 Salsa Road, Spiceville",
			"vegetarian,vegan", "Street Tacos,Guacamole,Churros"},
		{"Veggie Delight", "Plant-based heaven with creative vegetarian and vegan options",
			"vegetarian,vegan", 3, 4.6, "101 Green Lane, Plantville",
			"vegetarian,vegan,gluten-free", "Buddha Bowl,Impossible Burger,Raw Cheesecake"},
		{"Burger & Brew", "Craft burgers paired with local beers",
			"american", 2, 4.4, "202 Patty Place, Burgertown",
			"vegetarian", "Classic Cheeseburger,Sweet Potato Fries,Craft Beer Flight"},
	}

	for _, r := range rows {
		_, err := db.conn.Exec(
			`INSERT INTO restaurants (id, name, description, cuisine_type, price_range, rating, address, image, dietary_options, popular_dishes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			xid.New().String(), r.name, r.description, r.cuisines, r.priceRange,
			r.rating, r.address, "/placeholder.svg", r.dietary, r.dishes,
		)
		if err != nil {
			return fmt.Errorf("seeding restaurant %s: %w", r.name, err)
		}
	}

	return nil
}
