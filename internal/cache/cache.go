// Package cache is a content-addressed store of compile results, backed
// by SQLite. Only the diagnostic lists are stored. When a source file's
// content hash is already recorded, the driver prints the stored
// diagnostics and does not lex, parse or analyze that file again; no AST
// or analysis state is kept.
package cache

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

const dbFileName = "compile.db"

// Entry is one cached compile result.
type Entry struct {
	ID        string
	Hash      string
	Filename  string
	SessionID string
	Errors    []string
	Warnings  []string
	Created   time.Time
}

// Store wraps the cache database. Create one with Open and close it when
// the driver exits.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database under dir.
func Open(dir string) (*Store, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		id TEXT NOT NULL PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		session_id TEXT NOT NULL,
		errors TEXT NOT NULL,
		warnings TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("initializing cache db: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hash returns the content address of source: its BLAKE2b-256 digest,
// hex-encoded.
func Hash(source string) string {
	sum := blake2b.Sum256([]byte(source))
	return fmt.Sprintf("%x", sum)
}

// Get looks up the cached result for a content hash. The second return is
// false on a cache miss.
func (s *Store) Get(hash string) (Entry, bool, error) {
	row := s.db.QueryRow(
		`SELECT id, hash, filename, session_id, errors, warnings, created FROM results WHERE hash = ?`,
		hash,
	)
	var e Entry
	var errsCol, warnsCol string
	var created int64
	err := row.Scan(&e.ID, &e.Hash, &e.Filename, &e.SessionID, &errsCol, &warnsCol, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if e.Errors, err = convertFromDBStringSlice(errsCol); err != nil {
		return Entry{}, false, fmt.Errorf("decoding cached errors: %w", err)
	}
	if e.Warnings, err = convertFromDBStringSlice(warnsCol); err != nil {
		return Entry{}, false, fmt.Errorf("decoding cached warnings: %w", err)
	}
	e.Created = time.Unix(created, 0)
	return e, true, nil
}

// Put records the compile result for a content hash, replacing any
// previous entry for the same content.
func (s *Store) Put(hash, filename, sessionID string, errs, warns []string) error {
	_, err := s.db.Exec(
		`INSERT INTO results (id, hash, filename, session_id, errors, warnings, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET
		 filename=excluded.filename, session_id=excluded.session_id,
		 errors=excluded.errors, warnings=excluded.warnings, created=excluded.created`,
		uuid.NewString(), hash, filename, sessionID,
		convertToDBStringSlice(errs), convertToDBStringSlice(warns),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// convertToDBStringSlice converts a diagnostic list to storage DB format:
// REZI-encoded bytes, base64'd into the TEXT column. An empty list stores
// the zero value.
func convertToDBStringSlice(list []string) string {
	if len(list) == 0 {
		return ""
	}
	data := rezi.EncSliceString(list)
	return base64.StdEncoding.EncodeToString(data)
}

// convertFromDBStringSlice converts a storage DB format value back to a
// diagnostic list. The zero value decodes to a nil slice.
func convertFromDBStringSlice(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode stored to bytes: %w", err)
	}
	list, n, err := rezi.DecSliceString(data)
	if err != nil {
		return nil, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return list, nil
}
