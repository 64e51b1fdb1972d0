package database

import (
	sq "github.com/Masterminds/squirrel"
)

var processorLogColumns = []string{
	"id", "owner", "file_path", "error_code", "message", "reason", "original_file_path",
}

type processorLogStatements struct {
	builder sq.StatementBuilderType
}

func (s *processorLogStatements) createTable() string {
	return `create table if not exists ` + ProcessorLogTable + ` (
		id varchar primary key,
		owner varchar not null,
		file_path varchar not null,
		error_code varchar not null,
		message varchar not null,
		reason varchar,
		original_file_path varchar
	)`
}

func (s *processorLogStatements) insert(ev ProcessorLogEvent) (string, []any, error) {
	var original any
	if ev.OriginalFilePath != nil {
		original = *ev.OriginalFilePath
	}
	return s.builder.Insert(ProcessorLogTable).
		Columns(processorLogColumns...).
		Values(ev.ID, ev.Owner, ev.FilePath, ev.ErrorCode, ev.Message, ev.Reason, original).
		ToSql()
}
