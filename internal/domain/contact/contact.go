// Package contact defines the contact domain model and its validation rules.
package contact

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/contactd/contactd/internal/domain"
)

const (
	maxNameLen  = 50
	maxEmailLen = 100
	maxPhoneLen = 20
	maxNotesLen = 255
)

// Contact represents a single address-book entry owned by a user.
type Contact struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateRequest is the input for creating a new contact.
type CreateRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// Validate checks that the CreateRequest has all required fields within limits.
func (r *CreateRequest) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("%w: first_name is required", domain.ErrValidation)
	}
	if len(r.FirstName) > maxNameLen {
		return fmt.Errorf("%w: first_name too long (max %d)", domain.ErrValidation, maxNameLen)
	}
	if r.LastName == "" {
		return fmt.Errorf("%w: last_name is required", domain.ErrValidation)
	}
	if len(r.LastName) > maxNameLen {
		return fmt.Errorf("%w: last_name too long (max %d)", domain.ErrValidation, maxNameLen)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if len(r.Email) > maxEmailLen {
		return fmt.Errorf("%w: email too long (max %d)", domain.ErrValidation, maxEmailLen)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if r.Phone == "" {
		return fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}
	if len(r.Phone) > maxPhoneLen {
		return fmt.Errorf("%w: phone too long (max %d)", domain.ErrValidation, maxPhoneLen)
	}
	if len(r.Notes) > maxNotesLen {
		return fmt.Errorf("%w: notes too long (max %d)", domain.ErrValidation, maxNotesLen)
	}
	return nil
}

// UpdateRequest is the input for a full contact update. Semantics match
// CreateRequest: all required fields must be present.
type UpdateRequest = CreateRequest

// UpdateBirthdateRequest is the input for a birthdate-only patch.
type UpdateBirthdateRequest struct {
	Birthdate time.Time `json:"birthdate"`
}

// Validate rejects a zero birthdate.
func (r *UpdateBirthdateRequest) Validate() error {
	if r.Birthdate.IsZero() {
		return fmt.Errorf("%w: birthdate is required", domain.ErrValidation)
	}
	return nil
}

// Filter narrows a contact listing. Empty string fields are ignored.
// Name and email filters match as case-insensitive substrings.
type Filter struct {
	FirstName string
	LastName  string
	Email     string
	Skip      int
	Limit     int
}

// DefaultListLimit caps unbounded list requests.
const DefaultListLimit = 100

// Normalize clamps pagination to sane bounds.
func (f *Filter) Normalize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 || f.Limit > DefaultListLimit {
		f.Limit = DefaultListLimit
	}
}

// BirthdayInWindow reports whether the birthday (month and day of birthdate)
// falls within [from, to]. The window may wrap a year boundary, in which case
// the birthday is projected into both candidate years before comparison.
// A Feb 29 birthdate normalizes to Mar 1 in non-leap years, so leaplings
// are observed every year.
func BirthdayInWindow(birthdate, from, to time.Time) bool {
	if to.Before(from) {
		return false
	}
	for year := from.Year(); year <= to.Year(); year++ {
		next := time.Date(year, birthdate.Month(), birthdate.Day(), 0, 0, 0, 0, from.Location())
		if !next.Before(truncateDay(from)) && !next.After(truncateDay(to)) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
