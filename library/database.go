package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection. It is the
// single mutator of the stored aggregate: callers read through its query
// methods and mutate only through its explicit operations. Every mutating
// operation runs inside one transaction, and mu serializes mutators so that
// check-then-write sequences cannot interleave.
type Database struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time

	addUserStmt *sql.Stmt
	addBookStmt *sql.Stmt
	addItemStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db, now: time.Now}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addUserStmt != nil {
		d.addUserStmt.Close()
	}
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addItemStmt != nil {
		d.addItemStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id TEXT PRIMARY KEY,
            role TEXT NOT NULL CHECK (role IN ('librarian','member')),
            name TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            employee_id TEXT NOT NULL DEFAULT '',
            member_id TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            book_id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL DEFAULT '',
            publisher TEXT NOT NULL DEFAULT '',
            isbn TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'available'
        );`,
		`CREATE TABLE IF NOT EXISTS book_items (
            barcode TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            location TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'available',
            due_date DATETIME
        );`,
		// AUTOINCREMENT keeps loan ids strictly monotonic: an id is never
		// reused after its loan is deleted by a return.
		`CREATE TABLE IF NOT EXISTS loans (
            loan_id INTEGER PRIMARY KEY AUTOINCREMENT,
            barcode TEXT NOT NULL UNIQUE REFERENCES book_items(barcode),
            member_user_id TEXT NOT NULL REFERENCES users(user_id),
            borrow_date DATETIME NOT NULL,
            return_date DATETIME NOT NULL
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addUserStmt, err = d.db.Prepare(
		`INSERT INTO users(user_id,role,name,email,phone,address,employee_id,member_id,password_hash)
         VALUES(?,?,?,?,?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addBookStmt, err = d.db.Prepare(
		`INSERT INTO books(book_id,title,author,publisher,isbn,status) VALUES(?,?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addItemStmt, err = d.db.Prepare(
		`INSERT INTO book_items(barcode,title,location,status) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Transaction helpers
// ---------------------------------------------------------------------------

// commit finalizes the unit of work. A failed commit means nothing was made
// durable; the caller must treat the whole operation as not applied.
func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
