// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE FOR A RECORDS SERVICE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file, with no separate server to install or manage. Beyond the operational
// simplicity, two of its properties do real work for this domain:
//
//   - UNIQUE indexes make the natural-key checks (studentId, email, the
//     per-student grade triple) atomic with the write. Two concurrent creates
//     with the same key physically cannot both commit.
//   - Writers are serialized, so a grade upsert and its GPA recomputation
//     run as one transaction that no other writer can interleave with.
//
// We use modernc.org/sqlite (a pure-Go translation of SQLite) rather than the
// CGo-based mattn driver, so the binary cross-compiles anywhere Go runs.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the sqlite package's init() registers itself with
	// database/sql as a driver named "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests — a fresh, throwaway database per test.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// essential for a request-concurrent HTTP server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; the grades table relies on
	// ON DELETE CASCADE to remove a student's ledger atomically with the
	// student row.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent;
// for this project's scale that beats carrying a migration framework.
func (db *DB) migrate() error {
	// students: one row per student, sub-documents flattened into columns.
	//
	// student_id and email carry the natural-key UNIQUE constraints; email is
	// NOCASE so "A@X.EDU" and "a@x.edu" collide, matching the case-insensitive
	// uniqueness rule. gpa is derived — written only by this package, always
	// from the grades table, in the same transaction as the triggering change.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id                  TEXT PRIMARY KEY,
			student_id          TEXT NOT NULL UNIQUE,
			first_name          TEXT NOT NULL,
			last_name           TEXT NOT NULL,
			email               TEXT NOT NULL UNIQUE COLLATE NOCASE,
			phone               TEXT NOT NULL,
			date_of_birth       DATETIME NOT NULL,
			gender              TEXT NOT NULL,
			street              TEXT NOT NULL,
			city                TEXT NOT NULL,
			state               TEXT NOT NULL,
			zip_code            TEXT NOT NULL,
			country             TEXT NOT NULL DEFAULT 'USA',
			major               TEXT NOT NULL,
			minor               TEXT NOT NULL DEFAULT '',
			enrollment_date     DATETIME NOT NULL,
			expected_graduation DATETIME NOT NULL,
			current_semester    TEXT NOT NULL,
			current_year        INTEGER NOT NULL,
			gpa                 REAL NOT NULL DEFAULT 0,
			credits_completed   INTEGER NOT NULL DEFAULT 0,
			total_credits       INTEGER NOT NULL DEFAULT 120,
			emergency_name      TEXT NOT NULL,
			emergency_relation  TEXT NOT NULL,
			emergency_phone     TEXT NOT NULL,
			emergency_email     TEXT NOT NULL,
			status              TEXT NOT NULL DEFAULT 'Active',
			notes               TEXT NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL,
			updated_at          DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_students_major ON students(major);
		CREATE INDEX IF NOT EXISTS idx_students_status ON students(status);
		CREATE INDEX IF NOT EXISTS idx_students_created_at ON students(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating students table: %w", err)
	}

	// grades: the per-student ledger. The UNIQUE index on
	// (student_id, subject, semester, year) is the grade natural key; the
	// upsert logic targets it. position preserves ledger order — a replaced
	// entry keeps its position, an appended one takes the next slot.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS grades (
			id         TEXT PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			subject    TEXT NOT NULL,
			grade      TEXT NOT NULL,
			semester   TEXT NOT NULL,
			year       INTEGER NOT NULL,
			position   INTEGER NOT NULL,
			UNIQUE(student_id, subject, semester, year)
		);
		CREATE INDEX IF NOT EXISTS idx_grades_student_id ON grades(student_id);
	`)
	if err != nil {
		return fmt.Errorf("creating grades table: %w", err)
	}

	// users: staff accounts. username and email are unique, case-insensitive,
	// same rationale as the student email.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			role          TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			last_login    DATETIME,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
