// Package diag carries the fatal error taxonomy of the configuration
// parser and renders captioned, caret-annotated source context for each
// error. Every violation is fatal: the anvil binary routes diagnostics
// through Exit, which never returns.
package diag

import (
	"fmt"
	"strings"
)

// Kind is the closed taxonomy of configuration errors.
type Kind int

const (
	TabIndentation Kind = iota
	UnexpectedToken
	KeyRedefinition // reserved: duplicate keys are currently permitted
	UndefinedAlias
	RedefinedAlias
	MissingValue
	MissingComma
	UnclosedQuote
	NumberTooLong
	KeyTooLong
)

var kindNames = [...]string{
	TabIndentation:  "TAB_INDENTATION",
	UnexpectedToken: "UNEXPECTED_TOKEN",
	KeyRedefinition: "KEY_REDEFINITION",
	UndefinedAlias:  "UNDEFINED_ALIAS",
	RedefinedAlias:  "REDEFINED_ALIAS",
	MissingValue:    "MISSING_VALUE",
	MissingComma:    "MISSING_COMMA",
	UnclosedQuote:   "UNCLOSED_QUOTE",
	NumberTooLong:   "NUMBER_TOO_LONG",
	KeyTooLong:      "KEY_TOO_LONG",
}

// messages are the human-readable templates, with #{exp} and #{got}
// substituted from the error's Exp/Got fields.
var messages = [...]string{
	TabIndentation:  "Tabs cannot be used for indentation.",
	UnexpectedToken: "Expected #{exp}, found #{got}.",
	KeyRedefinition: "Key #{got} is redefined in the current context.",
	UndefinedAlias:  "Alias #{got} is undefined.",
	RedefinedAlias:  "Alias #{got} is already defined.",
	MissingValue:    "Missing value after key #{got}.",
	MissingComma:    "Comma missing between elements in a collection.",
	UnclosedQuote:   "Reached #{got} while looking for a matching quote.",
	NumberTooLong:   "Number exceeds the maximum token length.",
	KeyTooLong:      "Key exceeds the maximum token length.",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN_ERROR"
	}
	return kindNames[k]
}

// Pos locates the offending bytes in the source.
type Pos struct {
	Offset int
	Line   int
	Col    int
	Len    int
}

// Error is a fatal configuration diagnostic. It satisfies error so that
// library callers can propagate it; the binary hands it to Exit.
type Error struct {
	Kind Kind
	Pos  Pos
	Exp  string // what the grammar required, for UNEXPECTED_TOKEN
	Got  string // what was found, or the offending name/key
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, col %d: %s", e.Kind, e.Pos.Line, e.Pos.Col, e.Message())
}

// Message returns the template for the error's kind with #{exp} and
// #{got} substituted.
func (e *Error) Message() string {
	msg := messages[e.Kind]
	msg = strings.ReplaceAll(msg, "#{exp}", e.Exp)
	msg = strings.ReplaceAll(msg, "#{got}", e.Got)
	return msg
}

// New constructs a diagnostic of the given kind.
func New(kind Kind, pos Pos, exp, got string) *Error {
	return &Error{Kind: kind, Pos: pos, Exp: exp, Got: got}
}
