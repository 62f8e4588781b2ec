package domain

import "errors"

// Sentinel errors for the domain layer. Task and timer operations never fail;
// these cover parsing of externally supplied enum values.
var (
	ErrInvalidFilter = errors.New("domain: invalid filter")
	ErrInvalidMode   = errors.New("domain: invalid timer mode")
	ErrInvalidTheme  = errors.New("domain: invalid theme")
)
