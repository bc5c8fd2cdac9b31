package command

import (
	"errors"
	"strings"
)

var (
	ErrRegistryFrozen          = errors.New("registry is frozen")
	ErrModeConflict            = errors.New("cannot use raw and structured modes at once")
	ErrSchemaWithoutStructured = errors.New("arguments declared without structured mode")
	ErrMissingHandler          = errors.New("no handler set")
	ErrMissingMatcher          = errors.New("no matcher tokens set")
	ErrDuplicateArgument       = errors.New("duplicate argument")
	ErrInvalidArity            = errors.New("invalid arity")
)

// UsageError is a parse failure that is reported back to the triggering user.
// Every entry of Lines becomes one reply.
type UsageError struct {
	Lines []string
}

func (e *UsageError) Error() string {
	return strings.Join(e.Lines, "\n")
}

func usageError(lines ...string) *UsageError {
	return &UsageError{Lines: lines}
}
