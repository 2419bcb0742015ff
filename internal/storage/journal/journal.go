// Package journal persists an append-only audit trail of committed engine
// operations in a relational database, either embedded sqlite or postgres.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	// database/sql drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Entry is one committed operation.
type Entry struct {
	ID     int64
	At     time.Time
	Op     string
	Sale   string
	Actor  string
	Amount uint64
}

// DB is an open journal.
type DB struct {
	db     *sql.DB
	driver string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS operations (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	at     INTEGER NOT NULL,
	op     TEXT    NOT NULL,
	sale   TEXT    NOT NULL,
	actor  TEXT    NOT NULL,
	amount INTEGER NOT NULL
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS operations (
	id     BIGSERIAL PRIMARY KEY,
	at     BIGINT NOT NULL,
	op     TEXT   NOT NULL,
	sale   TEXT   NOT NULL,
	actor  TEXT   NOT NULL,
	amount BIGINT NOT NULL
)`

// Open opens a journal. Supported drivers are "sqlite" (dsn is a file path
// or ":memory:") and "postgres" (dsn is a connection string). The schema is
// created when missing.
func Open(driver, dsn string) (*DB, error) {
	var schema string
	switch driver {
	case "sqlite":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &DB{db: db, driver: driver}, nil
}

// Record appends one entry. The signature matches the engine's Recorder
// contract.
func (d *DB) Record(at time.Time, op, sale, actor string, amount uint64) error {
	query := `INSERT INTO operations (at, op, sale, actor, amount) VALUES (?, ?, ?, ?, ?)`
	if d.driver == "postgres" {
		query = `INSERT INTO operations (at, op, sale, actor, amount) VALUES ($1, $2, $3, $4, $5)`
	}
	_, err := d.db.Exec(query, at.Unix(), op, sale, actor, int64(amount))
	if err != nil {
		return fmt.Errorf("journal record: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (d *DB) List(limit int) ([]Entry, error) {
	query := `SELECT id, at, op, sale, actor, amount FROM operations ORDER BY id DESC LIMIT ?`
	if d.driver == "postgres" {
		query = `SELECT id, at, op, sale, actor, amount FROM operations ORDER BY id DESC LIMIT $1`
	}
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("journal list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at, amount int64
		if err := rows.Scan(&e.ID, &at, &e.Op, &e.Sale, &e.Actor, &amount); err != nil {
			return nil, err
		}
		e.At = time.Unix(at, 0).UTC()
		e.Amount = uint64(amount)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.db.Close() }
