// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go port of SQLite, so the binary needs no C
// toolchain. Tests use ":memory:" for a throwaway database.
//
// Every repository method runs through a querier, which is either the pool
// (*sql.DB) or an open transaction (*sql.Tx). That is what lets TxManager
// hand the same repository code to a transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/taskmate/internal/repository"
)

const memoryPath = ":memory:"

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// store implements every repository interface on top of a querier.
type store struct {
	q querier
}

func (s *store) Users() repository.UserRepository         { return s }
func (s *store) Providers() repository.ProviderRepository { return s }
func (s *store) Taxonomy() repository.TaxonomyRepository  { return s }

// DB owns the connection pool. Its embedded store runs queries outside any
// transaction; Execute runs them inside one.
type DB struct {
	store
	conn *sql.DB
}

// compile-time checks
var (
	_ repository.RepositoryFactory = (*DB)(nil)
	_ repository.TxManager         = (*DB)(nil)
)

// New opens the database at dbPath, applies the connection pragmas and runs
// migrations.
//
// dbPath examples:
//   - "data/taskmate.db" → file-based database
//   - ":memory:"         → in-memory database, one connection only
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each new connection to ":memory:" is a different, empty database.
	if dbPath == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if dbPath != memoryPath {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	db := &DB{store: store{q: conn}, conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn appends the per-connection settings. foreign_keys is off by default in
// SQLite and only applies to the connection that set it, so it has to be in
// the DSN rather than a one-off PRAGMA statement.
//
// _txlock=immediate makes BeginTx take the write lock up front. A deferred
// transaction that reads and then writes cannot be upgraded while another
// writer holds the lock, and SQLite fails it with SQLITE_BUSY without
// consulting busy_timeout. Taken at BEGIN, the lock is waited for instead.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Execute runs fn in one write transaction. fn must only use the repositories
// it is given; touching db directly inside fn bypasses the transaction.
// Concurrent callers are serialised by the immediate write lock.
//
// The transaction is always finished before Execute returns: commit on nil,
// rollback on error, rollback and re-panic on panic.
func (db *DB) Execute(ctx context.Context, fn func(repos repository.RepositoryFactory) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&store{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}
