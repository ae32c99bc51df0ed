package build

import "errors"

var (
	// ErrBadDepRule reports a malformed make-style dependency rule.
	ErrBadDepRule = errors.New("bad dep rule")
	// ErrMissingDep reports a prerequisite file that does not exist.
	ErrMissingDep = errors.New("missing dependency")
	// ErrNoTarget reports a target name absent from the config.
	ErrNoTarget = errors.New("no such target")
	// ErrNoProfile reports a profile name absent from the config.
	ErrNoProfile = errors.New("no such profile")
	// ErrBadCondition reports a profile condition that failed to
	// compile or did not yield a boolean.
	ErrBadCondition = errors.New("bad profile condition")
)
