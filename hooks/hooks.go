// Package hooks runs user-defined command hooks with output
// validation and result caching.
package hooks

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrUnknownValidate reports an unrecognized validate_str value.
	ErrUnknownValidate = errors.New("unknown validate_str level")
	// ErrUnknownCache reports an unrecognized cache_policy value.
	ErrUnknownCache = errors.New("unknown cache_policy")
	// ErrValidate reports hook output rejected by its validate level.
	ErrValidate = errors.New("hook output rejected")
)

// Validate is the strictness applied to a hook's captured output.
type Validate int

const (
	// Off performs no output validation.
	Off Validate = iota
	// Compact requires valid UTF-8.
	Compact
	// Content requires valid, non-empty UTF-8.
	Content
	// Strict additionally rejects control bytes other than newline
	// and tab.
	Strict
)

var validateNames = [...]string{
	Off:     "off",
	Compact: "compact",
	Content: "content",
	Strict:  "strict",
}

func (v Validate) String() string {
	if v < 0 || int(v) >= len(validateNames) {
		return "unknown"
	}
	return validateNames[v]
}

// MarshalText renders the level name, for YAML and JSON export.
func (v Validate) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseValidate maps a config field value to a Validate level.
func ParseValidate(s string) (Validate, error) {
	for i, name := range validateNames {
		if s == name {
			return Validate(i), nil
		}
	}
	return Off, fmt.Errorf("%w: %q", ErrUnknownValidate, s)
}

// CachePolicy controls whether a hook's result may be reused.
type CachePolicy int

const (
	// Never runs the hook on every request.
	Never CachePolicy = iota
	// Memoize reuses the result within one process.
	Memoize
	// Always persists the result across processes until the config
	// file changes.
	Always
)

var cacheNames = [...]string{
	Never:   "never",
	Memoize: "memoize",
	Always:  "always",
}

func (c CachePolicy) String() string {
	if c < 0 || int(c) >= len(cacheNames) {
		return "unknown"
	}
	return cacheNames[c]
}

// MarshalText renders the policy name, for YAML and JSON export.
func (c CachePolicy) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCachePolicy maps a config field value to a CachePolicy.
func ParseCachePolicy(s string) (CachePolicy, error) {
	for i, name := range cacheNames {
		if s == name {
			return CachePolicy(i), nil
		}
	}
	return Never, fmt.Errorf("%w: %q", ErrUnknownCache, s)
}

// Hook is one named command list from the config's build.arguments
// section.
type Hook struct {
	Name     string      `yaml:"-" json:"-"`
	Validate Validate    `yaml:"validate_str" json:"validate_str"`
	Cache    CachePolicy `yaml:"cache_policy" json:"cache_policy"`
	Commands []string    `yaml:"commands" json:"commands"`
}

// check applies the hook's validate level to captured output.
func (h Hook) check(out []byte) error {
	if h.Validate == Off {
		return nil
	}
	if !utf8.Valid(out) {
		return fmt.Errorf("%w: %s: not valid UTF-8", ErrValidate, h.Name)
	}
	if h.Validate == Compact {
		return nil
	}
	if len(out) == 0 {
		return fmt.Errorf("%w: %s: empty output", ErrValidate, h.Name)
	}
	if h.Validate != Strict {
		return nil
	}
	for _, b := range out {
		if b < 0x20 && b != '\n' && b != '\t' && b != '\r' {
			return fmt.Errorf("%w: %s: control byte 0x%02x", ErrValidate, h.Name, b)
		}
	}
	return nil
}
