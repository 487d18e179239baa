// Package sqlite reads and writes lexicon rows in a SQLite table, so a
// vocabulary maintained in a database can be used as the lexicon source.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/corey/cefr/internal/ports"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "lexicon"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Source is a lexicon table. Row order is the id order, which is the order
// rows were written in.
type Source struct {
	db    *sql.DB
	table string
}

// Open opens (or creates) the database at path with WAL enabled and makes
// sure the table exists.
func Open(ctx context.Context, path, table string) (*Source, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db, table); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Source{db: db, table: table}, nil
}

// Close closes the database connection
func (s *Source) Close() error {
	return s.db.Close()
}

// initSchema creates the table if it doesn't exist
func initSchema(ctx context.Context, db *sql.DB, table string) error {
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lemma TEXT NOT NULL,
	pos TEXT NOT NULL,
	level TEXT NOT NULL,
	abstract INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_lemma ON %[1]s(lemma);
`, table)
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Rows returns every row in insertion order. Rows with a blank lemma are
// skipped, like short rows in a CSV source.
func (s *Source) Rows(ctx context.Context) ([]ports.Row, error) {
	q := fmt.Sprintf(`SELECT lemma, pos, level, abstract FROM %s ORDER BY id`, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []ports.Row
	for rows.Next() {
		var (
			lemma, pos, level string
			abstract          bool
		)
		if err := rows.Scan(&lemma, &pos, &level, &abstract); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		lemma = strings.TrimSpace(lemma)
		if lemma == "" {
			continue
		}
		out = append(out, ports.Row{
			Lemma:    lemma,
			POS:      ports.ParsePOS(pos),
			Level:    ports.ParseLevel(level),
			Abstract: abstract,
		})
	}
	return out, rows.Err()
}

// WriteRows replaces the table contents with rows in one transaction.
func (s *Source) WriteRows(ctx context.Context, rows []ports.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (lemma, pos, level, abstract) VALUES (?, ?, ?, ?)`, s.table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Lemma, string(r.POS), r.Level.String(), r.Abstract); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored rows.
func (s *Source) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)).Scan(&n)
	return n, err
}
