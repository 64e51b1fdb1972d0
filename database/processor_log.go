package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ProcessorLogTable is the append-only failure-event stream. Rows are
// written when extraction or persistence of a key fails and are never
// updated.
const ProcessorLogTable = "processor_log"

// ProcessorLogEvent records one processing failure.
type ProcessorLogEvent struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Owner            uuid.UUID `db:"owner" json:"owner"`
	FilePath         string    `db:"file_path" json:"file_path"`
	ErrorCode        string    `db:"error_code" json:"error_code"`
	Message          string    `db:"message" json:"message"`
	Reason           string    `db:"reason" json:"reason"`
	OriginalFilePath *string   `db:"original_file_path" json:"original_file_path"`
}

// ProcessorLogWriter appends failure events inside single-statement
// transactions.
type ProcessorLogWriter struct {
	db    *sql.DB
	stmts *processorLogStatements
}

func NewProcessorLogWriter(db *sql.DB, dialect Dialect) (*ProcessorLogWriter, error) {
	switch dialect {
	case DialectSqlite, DialectPostgres:
	default:
		return nil, fmt.Errorf("%w: [%s]", ErrUnsupportedDialect, dialect)
	}
	return &ProcessorLogWriter{db: db, stmts: &processorLogStatements{builder: builderFor(dialect)}}, nil
}

// EnsureSchema creates the processor_log table if it does not exist.
func (w *ProcessorLogWriter) EnsureSchema() error {
	if _, err := w.db.Exec(w.stmts.createTable()); err != nil {
		return fmt.Errorf("failed to create %s table: %w", ProcessorLogTable, err)
	}
	return nil
}

// WriteEvent appends one failure event.
func (w *ProcessorLogWriter) WriteEvent(ev ProcessorLogEvent) error {
	sqlStr, args, err := w.stmts.insert(ev)
	if err != nil {
		return fmt.Errorf("failed to build processor log insert: %w", err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(sqlStr, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to write processor log event for %s: %w", ev.FilePath, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit processor log event: %w", err)
	}
	return nil
}
