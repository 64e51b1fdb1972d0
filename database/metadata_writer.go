package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ebridges/metaproc/model"
)

// DatabaseMetadataWriter persists Metadata records with upsert semantics:
// at most one row per file_path, keyed for updates by the primary id. Each
// Write or Delete call is one transaction over an injected handle.
type DatabaseMetadataWriter struct {
	db    *sql.DB
	stmts *MetadataStatements
}

// NewDatabaseMetadataWriter builds a writer for the given dialect. An
// unsupported dialect fails here, at construction time.
func NewDatabaseMetadataWriter(db *sql.DB, dialect Dialect) (*DatabaseMetadataWriter, error) {
	stmts, err := NewMetadataStatements(dialect)
	if err != nil {
		return nil, err
	}
	return &DatabaseMetadataWriter{db: db, stmts: stmts}, nil
}

// EnsureSchema creates the metadata table if it does not exist.
func (w *DatabaseMetadataWriter) EnsureSchema() error {
	if _, err := w.db.Exec(w.stmts.CreateTable()); err != nil {
		return fmt.Errorf("failed to create %s table: %w", MetadataTable, err)
	}
	return nil
}

// Exists reports whether a row with the given business key is present.
func (w *DatabaseMetadataWriter) Exists(filePath string) (bool, error) {
	return w.exists(w.db, filePath)
}

func (w *DatabaseMetadataWriter) exists(q Querier, filePath string) (bool, error) {
	sqlStr, args, err := w.stmts.Exists(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}
	var one int
	err = q.QueryRow(sqlStr, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence of %s: %w", filePath, err)
	}
	return true, nil
}

// Write inserts the record, or updates it in place when its file_path is
// already present. The exists check and the following statement run in one
// transaction, committed on success and rolled back on any failure.
//
// The exists-then-write sequence is not guarded against concurrent writers
// targeting the same file_path; concurrent invocations on one key can
// interleave. Callers that need stronger guarantees must serialize per key.
func (w *DatabaseMetadataWriter) Write(md *model.Metadata) (uuid.UUID, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	id, err := w.writeTx(tx, md)
	if err != nil {
		tx.Rollback()
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit write of %s: %w", md.FilePath, err)
	}
	return id, nil
}

func (w *DatabaseMetadataWriter) writeTx(tx *sql.Tx, md *model.Metadata) (uuid.UUID, error) {
	present, err := w.exists(tx, md.FilePath)
	if err != nil {
		return uuid.Nil, err
	}

	var sqlStr string
	var args []any
	if present {
		log.Printf("file_path %s already exists in db, updating it", md.FilePath)
		sqlStr, args, err = w.stmts.Update(md)
	} else {
		log.Printf("inserting new file_path %s", md.FilePath)
		sqlStr, args, err = w.stmts.Insert(md)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build write statement for %s: %w", md.FilePath, err)
	}

	return w.execReturningID(tx, sqlStr, args, md.ID)
}

// Delete removes the record stored under the key's image id, with the same
// one-transaction commit/rollback rule as Write.
func (w *DatabaseMetadataWriter) Delete(key model.ImageKey) error {
	sqlStr, args, err := w.stmts.Delete(key.ImageID())
	if err != nil {
		return fmt.Errorf("failed to build delete statement for %s: %w", key, err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := w.execReturningID(tx, sqlStr, args, key.ImageID()); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of %s: %w", key, err)
	}
	return nil
}

// execReturningID runs a statement and yields the affected primary key:
// scanned from a RETURNING clause where the dialect supports one, otherwise
// the id the caller already holds.
func (w *DatabaseMetadataWriter) execReturningID(q Querier, sqlStr string, args []any, fallback uuid.UUID) (uuid.UUID, error) {
	if w.stmts.dialect.returning() {
		var id uuid.UUID
		if err := q.QueryRow(sqlStr, args...).Scan(&id); err != nil {
			if err == sql.ErrNoRows {
				return fallback, nil
			}
			return uuid.Nil, fmt.Errorf("failed to execute statement: %w", err)
		}
		return id, nil
	}
	if _, err := q.Exec(sqlStr, args...); err != nil {
		return uuid.Nil, fmt.Errorf("failed to execute statement: %w", err)
	}
	return fallback, nil
}

// Close releases the underlying handle.
func (w *DatabaseMetadataWriter) Close() error {
	return w.db.Close()
}
