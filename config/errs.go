package config

import (
	"errors"
	"fmt"

	"github.com/anvil-build/anvil/ir"
)

var (
	// ErrWrongKind reports a config field whose node kind does not
	// match the field's schema.
	ErrWrongKind = errors.New("wrong kind")
	// ErrMissingField reports a required field absent from the tree.
	ErrMissingField = errors.New("missing field")
	// ErrUnknownLevel reports an unrecognized enum value in a field
	// with a closed value set.
	ErrUnknownLevel = errors.New("unknown level")
)

func fieldKind(field string, want, got ir.Kind) error {
	return fmt.Errorf("%w: %s: want %s, got %s", ErrWrongKind, field, want, got)
}
