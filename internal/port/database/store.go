// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/contactd/contactd/internal/domain/contact"
	"github.com/contactd/contactd/internal/domain/user"
)

// Store is the port interface for persistence. Every contact operation is
// scoped to the owning user's ID; lookups for contacts the owner does not
// hold return domain.ErrNotFound rather than another owner's data.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error

	// Contacts
	ListContacts(ctx context.Context, ownerID string, f contact.Filter) ([]contact.Contact, error)
	GetContact(ctx context.Context, ownerID, id string) (*contact.Contact, error)
	CreateContact(ctx context.Context, ownerID string, req contact.CreateRequest) (*contact.Contact, error)
	UpdateContact(ctx context.Context, ownerID, id string, req contact.UpdateRequest) (*contact.Contact, error)
	DeleteContact(ctx context.Context, ownerID, id string) (*contact.Contact, error)
	ListContactsWithBirthdays(ctx context.Context, ownerID string) ([]contact.Contact, error)
}
