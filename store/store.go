// Package store provides a formula.Environment whose variables persist in a
// SQL database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/formula"
)

// Dialect selects the SQL flavor of a database.
type Dialect int

const (
	// SQLite is a database opened with github.com/mattn/go-sqlite3.
	SQLite Dialect = iota
	// MySQL is a database opened with github.com/go-sql-driver/mysql.
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite3"
	case MySQL:
		return "mysql"
	}
	return "Dialect(" + strconv.Itoa(int(d)) + ")"
}

// schema returns the statement creating the variables table.
func (d Dialect) schema() string {
	switch d {
	case MySQL:
		return `CREATE TABLE IF NOT EXISTS formula_vars (
	name VARCHAR(255) NOT NULL PRIMARY KEY,
	kind VARCHAR(16) NOT NULL,
	value TEXT NOT NULL
)`
	default:
		return `CREATE TABLE IF NOT EXISTS formula_vars (
	name TEXT NOT NULL PRIMARY KEY,
	kind TEXT NOT NULL,
	value TEXT NOT NULL
)`
	}
}

// Store is an Environment keeping variables in a database table. Functions,
// and variables missing from the table, come from a fallback environment.
// A Store is safe for concurrent use if its fallback is.
type Store struct {
	db       *sql.DB
	dialect  Dialect
	fallback formula.Environment
	log      *slog.Logger
}

var _ formula.Environment = (*Store)(nil)

// New creates a Store on an open database, creating the variables table if
// needed. If fallback is nil, it is a formula.NewVars with the default
// functions. If log is nil, slog.Default() is used.
func New(db *sql.DB, dialect Dialect, fallback formula.Environment, log *slog.Logger) (*Store, error) {
	if fallback == nil {
		fallback = formula.NewVars(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	if _, err := db.Exec(dialect.schema()); err != nil {
		return nil, fmt.Errorf("creating %s variables table: %w", dialect, err)
	}
	log.Debug("variable store ready", slog.String("dialect", dialect.String()))
	return &Store{db: db, dialect: dialect, fallback: fallback, log: log}, nil
}

// Open opens the database named by target as ParseTarget describes and
// creates a Store on it. The Store owns the database; Close closes it.
func Open(target string, fallback formula.Environment, log *slog.Logger) (*Store, error) {
	dialect, dsn, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.String(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	if dialect == SQLite && strings.Contains(dsn, ":memory:") {
		// Each connection to an in-memory database is a new database.
		db.SetMaxOpenConns(1)
	}
	s, err := New(db, dialect, fallback, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// ParseTarget interprets a database target. "mysql://" followed by a
// go-sql-driver DSN selects MySQL; "sqlite:" or "sqlite3:" followed by a path
// selects SQLite, as does any other non-empty string, which is taken as a
// path.
func ParseTarget(target string) (Dialect, string, error) {
	switch {
	case target == "":
		return 0, "", errors.New("empty database target")
	case strings.HasPrefix(target, "mysql://"):
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(target, "mysql://"))
		if err != nil {
			return 0, "", fmt.Errorf("invalid mysql target: %w", err)
		}
		return MySQL, cfg.FormatDSN(), nil
	}
	for _, p := range []string{"sqlite3:", "sqlite:"} {
		if path, ok := strings.CutPrefix(target, p); ok {
			if path == "" {
				return 0, "", errors.New("sqlite target has no path")
			}
			return SQLite, path, nil
		}
	}
	return SQLite, target, nil
}

// Lookup returns the stored value of a variable, or the fallback's value if
// there is none. Database errors are logged and returned as the value, which
// fails the evaluation reading it.
func (s *Store) Lookup(name string) (any, bool) {
	var kind, value string
	err := s.db.QueryRow(`SELECT kind, value FROM formula_vars WHERE name = ?`, name).Scan(&kind, &value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.fallback.Lookup(name)
	case err != nil:
		s.log.Error("variable lookup failed", slog.String("name", name), slog.Any("err", err))
		return fmt.Errorf("looking up %s: %w", name, err), true
	}
	v, err := decode(kind, value)
	if err != nil {
		s.log.Error("corrupt stored variable", slog.String("name", name), slog.Any("err", err))
		return fmt.Errorf("decoding %s: %w", name, err), true
	}
	return v, true
}

// Assign stores a variable, replacing any previous value.
func (s *Store) Assign(name string, v any) error {
	n, err := formula.Native(v)
	if err != nil {
		return err
	}
	kind, value := encode(n)
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM formula_vars WHERE name = ?`, name); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	if _, err := tx.Exec(`INSERT INTO formula_vars (name, kind, value) VALUES (?, ?, ?)`, name, kind, value); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	s.log.Debug("stored variable", slog.String("name", name), slog.String("kind", kind), slog.String("value", value))
	return nil
}

// Delete removes a stored variable. If none is stored, the deletion goes to
// the fallback.
func (s *Store) Delete(name string) error {
	r, err := s.db.Exec(`DELETE FROM formula_vars WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	if k, err := r.RowsAffected(); err == nil && k == 0 {
		return s.fallback.Delete(name)
	}
	return nil
}

// Invoke calls a function of the fallback environment.
func (s *Store) Invoke(name string, args []any) (any, error) {
	return s.fallback.Invoke(name, args)
}

// Names returns the sorted names of the stored variables.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM formula_vars ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing variables: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing variables: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// encode converts a number to its stored kind and text.
func encode(n formula.Number) (kind, value string) {
	switch n.Kind() {
	case formula.Empty:
		return "empty", ""
	case formula.Integer:
		return "integer", strconv.FormatInt(n.Int64(), 10)
	case formula.Decimal:
		return "decimal", n.Decimal().String()
	case formula.Double:
		return "double", strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	panic("store: invalid number kind " + n.Kind().String())
}

// decode converts a stored kind and text to a host value.
func decode(kind, value string) (any, error) {
	switch kind {
	case "empty":
		return nil, nil
	case "integer":
		return strconv.ParseInt(value, 10, 64)
	case "decimal":
		return decimal.NewFromString(value)
	case "double":
		return strconv.ParseFloat(value, 64)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
