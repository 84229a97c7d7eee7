package store

import "errors"

var (
	// ErrSchemaMismatch is returned when a database file was written by a
	// different schema version
	ErrSchemaMismatch = errors.New("schema version mismatch")

	// ErrPersistence wraps storage and constraint failures while writing
	ErrPersistence = errors.New("persistence error")

	// ErrClosed is returned when a closed database or session is used
	ErrClosed = errors.New("database closed")
)
