package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// SQLSource runs a read-only query and maps its columns by name.
type SQLSource struct {
	backend schema.DatabaseBackend
	connStr string
	query   string
}

var _ contract.RecordSource = &SQLSource{} // Compile-time check

// NewSQLSource creates a source for the given backend. The connection is
// opened lazily by Load.
func NewSQLSource(backend schema.DatabaseBackend, connStr, query string) (*SQLSource, error) {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported source backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}
	if query == "" {
		query = contract.DefaultSourceQuery
	}
	return &SQLSource{backend: backend, connStr: connStr, query: query}, nil
}

// Name implements the RecordSource interface.
func (s *SQLSource) Name() string {
	return string(s.backend) + " query"
}

// Load implements the RecordSource interface.
func (s *SQLSource) Load(ctx context.Context) ([]schema.RawRecord, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", s.backend, err)
	}

	rows, err := db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("failed to run source query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRows(string(s.backend), rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("source query returned no rows: %w", contract.ErrNoInput)
	}
	return records, nil
}

// open returns a database handle for the configured backend.
func (s *SQLSource) open() (*sql.DB, error) {
	switch s.backend {
	case schema.SQLiteBackend:
		db, err := sql.Open("sqlite", s.connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w", s.connStr, err)
		}
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.ParseTime = true
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL source: %w", err)
		}
		return sql.OpenDB(connector), nil

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err := sql.Open("pgx", s.connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL source: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("unsupported source backend: %s", s.backend)
}

// sqlRows is the subset of *sql.Rows used for scanning.
type sqlRows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanRows reads every row as nullable strings, so timestamps and numbers go
// through the same parsing as CSV cells.
func scanRows(source string, rows sqlRows) ([]schema.RawRecord, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	idx := mapColumns(columns)

	var records []schema.RawRecord
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		cells := make([]schema.NullString, len(values))
		for i, v := range values {
			cells[i] = cell(v.String, v.Valid)
		}
		records = append(records, buildRecord(source, idx, cells))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate source rows: %w", err)
	}
	return records, nil
}
