package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is
// already taken.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrEmptyText is returned when a comment body is empty or
// whitespace-only.
var ErrEmptyText = errors.New("comment text is empty")
