// Package ledger implements the durable work ledger on SQLite.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.trai.ch/zerr"

	"genopipe/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	finished INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS calls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	finished INTEGER NOT NULL DEFAULT 0,
	return_value BLOB
);
`

// Store implements ports.Ledger on a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, zerr.Wrap(err, "failed to create ledger directory")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open ledger database")
	}
	// The ledger is shared by all tasks of a run; a single connection
	// serializes writers and sidesteps SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, zerr.Wrap(err, "failed to configure ledger database")
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to create ledger schema")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureJob returns the job row for name, inserting an unfinished row if none
// exists yet.
func (s *Store) EnsureJob(ctx context.Context, name string) (*domain.JobRecord, error) {
	rec := &domain.JobRecord{Name: name}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO jobs (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name,
		); err != nil {
			return err
		}
		var finished int
		if err := tx.QueryRowContext(ctx,
			"SELECT id, finished FROM jobs WHERE name = ?", name,
		).Scan(&rec.ID, &finished); err != nil {
			return err
		}
		rec.Finished = finished != 0
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to ensure job row"), "name", name)
	}
	return rec, nil
}

// FindJob returns the job row for name without inserting one.
func (s *Store) FindJob(ctx context.Context, name string) (*domain.JobRecord, error) {
	rec := &domain.JobRecord{Name: name}
	var finished int
	err := s.db.QueryRowContext(ctx,
		"SELECT id, finished FROM jobs WHERE name = ?", name,
	).Scan(&rec.ID, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, zerr.With(domain.ErrTaskNotFound, "name", name)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to look up job row"), "name", name)
	}
	rec.Finished = finished != 0
	return rec, nil
}

// FinishJob marks the job row as finished.
func (s *Store) FinishJob(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE jobs SET finished = 1 WHERE id = ?", id)
		if err != nil {
			return err
		}
		return exactlyOne(res)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to finish job row"), "id", id)
	}
	return nil
}

// EnsureCall returns the call row for the given call key, inserting an
// unfinished row if none exists yet.
func (s *Store) EnsureCall(ctx context.Context, name string) (*domain.CallRecord, error) {
	rec := &domain.CallRecord{Name: name}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO calls (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name,
		); err != nil {
			return err
		}
		var finished int
		var result sql.Null[[]byte]
		if err := tx.QueryRowContext(ctx,
			"SELECT id, finished, return_value FROM calls WHERE name = ?", name,
		).Scan(&rec.ID, &finished, &result); err != nil {
			return err
		}
		rec.Finished = finished != 0
		if result.Valid {
			rec.Result = result.V
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to ensure call row"), "name", name)
	}
	return rec, nil
}

// FinishCall marks the call row as finished and stores its serialized return
// value in the same transaction.
func (s *Store) FinishCall(ctx context.Context, id int64, result []byte) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE calls SET finished = 1, return_value = ? WHERE id = ?", result, id,
		)
		if err != nil {
			return err
		}
		return exactlyOne(res)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to finish call row"), "id", id)
	}
	return nil
}

// DeleteJob removes the job row for name. Deleting an absent row is not an
// error.
func (s *Store) DeleteJob(ctx context.Context, name string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM jobs WHERE name = ?", name)
		return err
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete job row"), "name", name)
	}
	return nil
}

// DeleteCall removes the call row for the given call key.
func (s *Store) DeleteCall(ctx context.Context, name string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM calls WHERE name = ?", name)
		return err
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete call row"), "name", name)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func exactlyOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return zerr.With(zerr.New("no such row"), "rows_affected", n)
	}
	return nil
}
