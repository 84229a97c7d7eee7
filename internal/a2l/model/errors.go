package model

import (
	"errors"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
)

// Errors raised while turning parsed keyword invocations into entities
var (
	ErrUnknownKeyword   = catalog.ErrUnknownKeyword
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrMissingParameter = errors.New("missing parameter")
	ErrUnexpectedChild  = errors.New("unexpected child")
	ErrInvalidValue     = errors.New("invalid value")
)
