package parse

import "errors"

var (
	// ErrNotRegular reports a config path that is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
	// ErrEmpty reports an empty config file.
	ErrEmpty = errors.New("empty file")
)
