// Package featurestore provides feature attributes for UTFGrid encoding
// from an SQLite table, one row per legend key.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package featurestore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/eak1mov/go-utfgrid/grid"
)

var ErrInvalidIdentifier = errors.New("utfgrid: invalid sql identifier")

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store implements utfgrid.FeatureWriter on top of an SQLite table.
type Store struct {
	db     *sql.DB
	stmt   *sql.Stmt
	logger *slog.Logger
}

type storeConfig struct {
	Table     string
	KeyColumn string
	Logger    *slog.Logger
}

type Option func(*storeConfig)

// WithTable sets the table holding feature attributes (default "features").
func WithTable(table string) Option {
	return func(c *storeConfig) { c.Table = table }
}

// WithKeyColumn sets the column matched against legend keys (default "key").
func WithKeyColumn(column string) Option {
	return func(c *storeConfig) { c.KeyColumn = column }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *storeConfig) { c.Logger = logger }
}

// Open opens the SQLite database at filePath read-only.
//
// The returned Store must be closed after use to release database resources.
func Open(filePath string, opts ...Option) (*Store, error) {
	config := storeConfig{
		Table:     "features",
		KeyColumn: "key",
		Logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	for _, name := range []string{config.Table, config.KeyColumn} {
		if !identifierRegexp.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", config.Table, config.KeyColumn)
	stmt, err := db.Prepare(query)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, stmt: stmt, logger: config.Logger}, nil
}

func (s *Store) Close() error {
	return errors.Join(s.stmt.Close(), s.db.Close())
}

// ReadFeature returns the attributes stored for key.
// If no row matches, it returns nil with no error.
func (s *Store) ReadFeature(key string) (grid.Properties, error) {
	rows, err := s.stmt.Query(key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	props := make(grid.Properties, len(columns))
	for i, column := range columns {
		if b, ok := values[i].([]byte); ok {
			props[column] = string(b)
		} else {
			props[column] = values[i]
		}
	}

	return props, rows.Err()
}

// WriteFeatures looks up every non-empty key. Keys without a row are skipped.
func (s *Store) WriteFeatures(_ *grid.View, keys []string) (map[string]grid.Properties, error) {
	features := make(map[string]grid.Properties)
	for _, key := range keys {
		if key == "" {
			continue
		}
		props, err := s.ReadFeature(key)
		if err != nil {
			return nil, fmt.Errorf("read feature %q: %w", key, err)
		}
		if props == nil {
			s.logger.Debug("utfgrid: feature not found", "key", key)
			continue
		}
		features[key] = props
	}
	return features, nil
}
