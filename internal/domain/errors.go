package domain

import "errors"

// ErrNotFound is returned by repo functions when the requested record does
// not exist. Handlers map this to HTTP 404; the duplicate resolver treats it
// as "no match".
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business-rule check.
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")
