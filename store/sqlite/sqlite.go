// Package sqlite persists the property catalog, knowledge base and viewing
// bookings in a single SQLite file. Embedding vectors are stored as JSON text
// so the schema stays portable across driver versions.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TonySuccar/autogen-realestate/core"
	_ "modernc.org/sqlite"
)

// Store owns the database handle. The typed views returned by Catalog,
// Knowledge and Bookings satisfy the core collaborator interfaces.
type Store struct {
	db *sql.DB
}

// Open creates the parent directory if needed, opens the database in WAL mode
// and ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		size_sqft REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(city);

	CREATE TABLE IF NOT EXISTS faq_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		tags_json TEXT NOT NULL DEFAULT '[]',
		vector_json TEXT
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		scheduled_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// Catalog returns the property-catalog view.
func (s *Store) Catalog() *Catalog { return &Catalog{db: s.db} }

// Knowledge returns the knowledge-base view.
func (s *Store) Knowledge() *Knowledge { return &Knowledge{db: s.db} }

// Bookings returns the booking-service view.
func (s *Store) Bookings() *Bookings { return &Bookings{db: s.db} }

// Catalog reads and writes property records.
type Catalog struct {
	db *sql.DB
}

var _ core.PropertyCatalog = (*Catalog)(nil)

// List returns properties matching the filter. City matches are
// case-insensitive substring matches.
func (c *Catalog) List(ctx context.Context, f core.Filter) ([]core.PropertyRecord, error) {
	query := `SELECT id, title, description, city, price, size_sqft FROM properties`
	var (
		clauses []string
		args    []any
	)
	if f.City != "" {
		clauses = append(clauses, `lower(city) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.City)+"%")
	}
	if f.MinPrice != nil {
		clauses = append(clauses, `price >= ?`)
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, `price <= ?`)
		args = append(args, *f.MaxPrice)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var records []core.PropertyRecord
	for rows.Next() {
		var r core.PropertyRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.City, &r.Price, &r.SizeSqft); err != nil {
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return records, nil
}

// Get returns a single property by identifier.
func (c *Catalog) Get(ctx context.Context, id int64) (core.PropertyRecord, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, title, description, city, price, size_sqft FROM properties WHERE id = ?`, id)

	var r core.PropertyRecord
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.City, &r.Price, &r.SizeSqft)
	if err == sql.ErrNoRows {
		return core.PropertyRecord{}, core.ErrNoMatch
	}
	if err != nil {
		return core.PropertyRecord{}, fmt.Errorf("scan property row: %w", err)
	}
	return r, nil
}

// Add inserts a property and returns it with the assigned identifier.
func (c *Catalog) Add(ctx context.Context, r core.PropertyRecord) (core.PropertyRecord, error) {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO properties (title, description, city, price, size_sqft) VALUES (?, ?, ?, ?, ?)`,
		r.Title, r.Description, r.City, r.Price, r.SizeSqft)
	if err != nil {
		return core.PropertyRecord{}, fmt.Errorf("insert property: %w", err)
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return core.PropertyRecord{}, fmt.Errorf("property last insert id: %w", err)
	}
	return r, nil
}

// Knowledge reads and writes FAQ entries with their embedding vectors.
type Knowledge struct {
	db *sql.DB
}

var _ core.KnowledgeBase = (*Knowledge)(nil)

// AllEntries returns every FAQ entry that carries an embedding vector.
func (k *Knowledge) AllEntries(ctx context.Context) ([]core.EmbeddingEntry, error) {
	rows, err := k.db.QueryContext(ctx,
		`SELECT id, question, answer, tags_json, vector_json FROM faq_entries WHERE vector_json IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query faq entries: %w", err)
	}
	defer rows.Close()

	var entries []core.EmbeddingEntry
	for rows.Next() {
		var (
			e        core.EmbeddingEntry
			tagsJSON string
			vecJSON  string
		)
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &tagsJSON, &vecJSON); err != nil {
			return nil, fmt.Errorf("scan faq row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			return nil, fmt.Errorf("decode faq tags %d: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(vecJSON), &e.Vector); err != nil {
			return nil, fmt.Errorf("decode faq vector %d: %w", e.ID, err)
		}
		if len(e.Vector) == 0 {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faq entries: %w", err)
	}
	return entries, nil
}

// Upsert inserts or replaces a FAQ entry, including its vector.
func (k *Knowledge) Upsert(ctx context.Context, e core.EmbeddingEntry) (core.EmbeddingEntry, error) {
	tagsJSON, err := json.Marshal(e.Tags)
	if err != nil {
		return core.EmbeddingEntry{}, fmt.Errorf("encode faq tags: %w", err)
	}
	var vecJSON any
	if len(e.Vector) > 0 {
		b, err := json.Marshal(e.Vector)
		if err != nil {
			return core.EmbeddingEntry{}, fmt.Errorf("encode faq vector: %w", err)
		}
		vecJSON = string(b)
	}

	if e.ID == 0 {
		res, err := k.db.ExecContext(ctx,
			`INSERT INTO faq_entries (question, answer, tags_json, vector_json) VALUES (?, ?, ?, ?)`,
			e.Question, e.Answer, string(tagsJSON), vecJSON)
		if err != nil {
			return core.EmbeddingEntry{}, fmt.Errorf("insert faq entry: %w", err)
		}
		e.ID, err = res.LastInsertId()
		if err != nil {
			return core.EmbeddingEntry{}, fmt.Errorf("faq last insert id: %w", err)
		}
		return e, nil
	}

	_, err = k.db.ExecContext(ctx, `
		INSERT INTO faq_entries (id, question, answer, tags_json, vector_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			tags_json = excluded.tags_json,
			vector_json = excluded.vector_json`,
		e.ID, e.Question, e.Answer, string(tagsJSON), vecJSON)
	if err != nil {
		return core.EmbeddingEntry{}, fmt.Errorf("upsert faq entry: %w", err)
	}
	return e, nil
}

// Bookings records and lists viewing appointments.
type Bookings struct {
	db *sql.DB
}

var _ core.BookingService = (*Bookings)(nil)

// Create schedules a viewing for the given property. The property must exist.
func (b *Bookings) Create(ctx context.Context, propertyID, userID int64, scheduledAt time.Time) (core.BookingRecord, error) {
	if _, err := (&Catalog{db: b.db}).Get(ctx, propertyID); err != nil {
		return core.BookingRecord{}, err
	}

	now := time.Now()
	res, err := b.db.ExecContext(ctx,
		`INSERT INTO bookings (property_id, user_id, scheduled_at, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		propertyID, userID, scheduledAt.Unix(), string(core.BookingScheduled), now.Unix())
	if err != nil {
		return core.BookingRecord{}, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.BookingRecord{}, fmt.Errorf("booking last insert id: %w", err)
	}

	return core.BookingRecord{
		ID:          id,
		PropertyID:  propertyID,
		UserID:      userID,
		ScheduledAt: scheduledAt,
		Status:      core.BookingScheduled,
		Created:     now,
	}, nil
}

// List returns the viewings recorded for a user, oldest first.
func (b *Bookings) List(ctx context.Context, userID int64) ([]core.BookingRecord, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, property_id, user_id, scheduled_at, status, created_at
		 FROM bookings WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var records []core.BookingRecord
	for rows.Next() {
		var (
			r                    core.BookingRecord
			scheduled, createdAt int64
			status               string
		)
		if err := rows.Scan(&r.ID, &r.PropertyID, &r.UserID, &scheduled, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		r.ScheduledAt = time.Unix(scheduled, 0)
		r.Status = core.BookingStatus(status)
		r.Created = time.Unix(createdAt, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return records, nil
}

// Seed loads the given fixtures into an empty database. Tables that already
// contain rows are left untouched.
func (s *Store) Seed(ctx context.Context, properties []core.PropertyRecord, faq []core.EmbeddingEntry) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n); err != nil {
		return fmt.Errorf("count properties: %w", err)
	}
	if n == 0 {
		cat := s.Catalog()
		for _, p := range properties {
			if _, err := cat.Add(ctx, p); err != nil {
				return err
			}
		}
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM faq_entries`).Scan(&n); err != nil {
		return fmt.Errorf("count faq entries: %w", err)
	}
	if n == 0 {
		kb := s.Knowledge()
		for _, e := range faq {
			e.ID = 0
			if _, err := kb.Upsert(ctx, e); err != nil {
				return err
			}
		}
	}
	return nil
}
