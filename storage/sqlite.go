package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the application database: durable cache rows and the query log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the application database.
func NewStore(dbPath string) (*Store, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func openSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func (s *Store) initSchema() error {
	schema := `
    -- Durable cache rows; only what is needed to rebuild entries on restart
    CREATE TABLE IF NOT EXISTS query_cache (
        key TEXT PRIMARY KEY,
        tool_used TEXT NOT NULL,
        value TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        ttl_seconds INTEGER NOT NULL,
        hit_count INTEGER DEFAULT 0
    );

    -- Query history log
    CREATE TABLE IF NOT EXISTS query_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        query_text TEXT NOT NULL,
        question_type TEXT,
        tool_used TEXT NOT NULL,
        routing_confidence REAL,
        result_confidence REAL,
        cached BOOLEAN DEFAULT FALSE,
        cache_hits INTEGER DEFAULT 0,
        duration_ms INTEGER NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_query_cache_tool ON query_cache(tool_used);
    CREATE INDEX IF NOT EXISTS idx_query_log_session ON query_log(session_id);
    CREATE INDEX IF NOT EXISTS idx_query_log_tool ON query_log(tool_used);
    `

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Vacuum optimizes the database.
func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

// DomainDB wraps one domain dataset (institutions, hospitals or restaurants)
// in its own SQLite file, the unit the data-file watcher observes.
type DomainDB struct {
	db     *sql.DB
	path   string
	domain string
}

// OpenDomainDB opens a domain database and ensures its schema exists.
func OpenDomainDB(dbPath, domain string) (*DomainDB, error) {
	schema, ok := domainSchemas[domain]
	if !ok {
		return nil, fmt.Errorf("unknown domain: %s", domain)
	}

	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize %s schema: %w", domain, err)
	}
	return &DomainDB{db: db, path: dbPath, domain: domain}, nil
}

// Path returns the database file path.
func (d *DomainDB) Path() string { return d.path }

// Domain returns the dataset name.
func (d *DomainDB) Domain() string { return d.domain }

// Close closes the connection.
func (d *DomainDB) Close() error { return d.db.Close() }

// RowCount returns the number of rows in the domain table.
func (d *DomainDB) RowCount() (int, error) {
	var count int
	err := d.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", d.domain)).Scan(&count)
	return count, err
}

// ExecuteSelect runs a SELECT statement and returns rows as column-keyed maps.
// Callers are expected to have validated the statement as read-only.
func (d *DomainDB) ExecuteSelect(query string) ([]map[string]any, error) {
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

var domainSchemas = map[string]string{
	"institutions": `
    CREATE TABLE IF NOT EXISTS institutions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        type TEXT NOT NULL,
        location TEXT NOT NULL,
        established INTEGER,
        degrees_offered TEXT,
        students_count INTEGER,
        public_private TEXT,
        specialization TEXT
    );
    CREATE INDEX IF NOT EXISTS idx_institutions_location ON institutions(location);
    CREATE INDEX IF NOT EXISTS idx_institutions_type ON institutions(type);`,

	"hospitals": `
    CREATE TABLE IF NOT EXISTS hospitals (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        type TEXT NOT NULL,
        location TEXT NOT NULL,
        bed_capacity INTEGER,
        emergency_services INTEGER DEFAULT 0,
        specialties TEXT,
        public_private TEXT,
        established INTEGER
    );
    CREATE INDEX IF NOT EXISTS idx_hospitals_location ON hospitals(location);
    CREATE INDEX IF NOT EXISTS idx_hospitals_beds ON hospitals(bed_capacity);`,

	"restaurants": `
    CREATE TABLE IF NOT EXISTS restaurants (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        cuisine_type TEXT NOT NULL,
        location TEXT NOT NULL,
        rating REAL,
        price_range TEXT,
        specialties TEXT,
        established INTEGER
    );
    CREATE INDEX IF NOT EXISTS idx_restaurants_location ON restaurants(location);
    CREATE INDEX IF NOT EXISTS idx_restaurants_cuisine ON restaurants(cuisine_type);`,
}
