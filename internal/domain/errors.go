// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist or is not
// owned by the caller. Cross-owner lookups surface as ErrNotFound, never
// as another owner's data.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness violation (duplicate email or phone).
var ErrConflict = errors.New("conflict: resource already exists")

// ErrValidation indicates invalid input. Wrap with context:
// fmt.Errorf("%w: first_name is required", ErrValidation).
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized indicates missing, expired, or malformed credentials.
var ErrUnauthorized = errors.New("unauthorized")
