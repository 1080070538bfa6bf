package service

import (
	"context"
	"fmt"
	"time"

	"github.com/contactd/contactd/internal/cache"
	"github.com/contactd/contactd/internal/domain/contact"
	"github.com/contactd/contactd/internal/port/database"
)

// BirthdayWindowDays is the length of the upcoming-birthday lookahead.
const BirthdayWindowDays = 7

// ContactService implements contact CRUD with owner-scoped cache
// invalidation. Every write commits to the store first and then drops the
// owner's cached responses; an unreachable cache never fails the write.
type ContactService struct {
	store database.Store
	inv   cache.Invalidator
	now   func() time.Time
}

// NewContactService creates a new contact service.
func NewContactService(store database.Store, inv cache.Invalidator) *ContactService {
	return &ContactService{store: store, inv: inv, now: time.Now}
}

// List returns the owner's contacts, narrowed by the filter.
func (s *ContactService) List(ctx context.Context, ownerID string, f contact.Filter) ([]contact.Contact, error) {
	return s.store.ListContacts(ctx, ownerID, f)
}

// Get returns one contact. Contacts held by other owners are not found.
func (s *ContactService) Get(ctx context.Context, ownerID, id string) (*contact.Contact, error) {
	return s.store.GetContact(ctx, ownerID, id)
}

// Create validates and stores a new contact, then invalidates the owner scope.
func (s *ContactService) Create(ctx context.Context, ownerID string, req contact.CreateRequest) (*contact.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	c, err := s.store.CreateContact(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	s.inv.InvalidateOwner(ctx, ownerID)
	return c, nil
}

// Update replaces all contact fields, then invalidates the owner scope.
func (s *ContactService) Update(ctx context.Context, ownerID, id string, req contact.UpdateRequest) (*contact.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	c, err := s.store.UpdateContact(ctx, ownerID, id, req)
	if err != nil {
		return nil, err
	}

	s.inv.InvalidateOwner(ctx, ownerID)
	return c, nil
}

// UpdateBirthdate patches only the birthdate, keeping every other field,
// then invalidates the owner scope.
func (s *ContactService) UpdateBirthdate(ctx context.Context, ownerID, id string, req contact.UpdateBirthdateRequest) (*contact.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	cur, err := s.store.GetContact(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	upd := contact.UpdateRequest{
		FirstName: cur.FirstName,
		LastName:  cur.LastName,
		Email:     cur.Email,
		Phone:     cur.Phone,
		Birthdate: &req.Birthdate,
		Notes:     cur.Notes,
	}
	c, err := s.store.UpdateContact(ctx, ownerID, id, upd)
	if err != nil {
		return nil, err
	}

	s.inv.InvalidateOwner(ctx, ownerID)
	return c, nil
}

// Delete removes a contact, returns the deleted record, and invalidates the
// owner scope.
func (s *ContactService) Delete(ctx context.Context, ownerID, id string) (*contact.Contact, error) {
	c, err := s.store.DeleteContact(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	s.inv.InvalidateOwner(ctx, ownerID)
	return c, nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday falls within
// the next BirthdayWindowDays days, including today. Year wrap-around at the
// end of December is handled by the window check.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID string) ([]contact.Contact, error) {
	contacts, err := s.store.ListContactsWithBirthdays(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	from := s.now()
	to := from.AddDate(0, 0, BirthdayWindowDays)

	var upcoming []contact.Contact
	for _, c := range contacts {
		if c.Birthdate != nil && contact.BirthdayInWindow(*c.Birthdate, from, to) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}
