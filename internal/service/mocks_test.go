package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/contactd/contactd/internal/domain"
	"github.com/contactd/contactd/internal/domain/contact"
	"github.com/contactd/contactd/internal/domain/user"
)

// mockStore is an in-memory database.Store for service tests.
type mockStore struct {
	users    []user.User
	contacts []contact.Contact
	nextID   int

	// Error hooks, set to inject failures.
	createUserErr    error
	updateUserErr    error
	listContactsErr  error
	createContactErr error
	updateContactErr error
	deleteContactErr error
}

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) UpdateUser(_ context.Context, u *user.User) error {
	if m.updateUserErr != nil {
		return m.updateUserErr
	}
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListContacts(_ context.Context, ownerID string, f contact.Filter) ([]contact.Contact, error) {
	if m.listContactsErr != nil {
		return nil, m.listContactsErr
	}
	f.Normalize()
	var out []contact.Contact
	for _, c := range m.contacts {
		if c.UserID != ownerID {
			continue
		}
		if f.FirstName != "" && !containsFold(c.FirstName, f.FirstName) {
			continue
		}
		if f.LastName != "" && !containsFold(c.LastName, f.LastName) {
			continue
		}
		if f.Email != "" && !containsFold(c.Email, f.Email) {
			continue
		}
		out = append(out, c)
	}
	if f.Skip >= len(out) {
		return nil, nil
	}
	out = out[f.Skip:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockStore) GetContact(_ context.Context, ownerID, id string) (*contact.Contact, error) {
	for i := range m.contacts {
		if m.contacts[i].ID == id && m.contacts[i].UserID == ownerID {
			c := m.contacts[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateContact(_ context.Context, ownerID string, req contact.CreateRequest) (*contact.Contact, error) {
	if m.createContactErr != nil {
		return nil, m.createContactErr
	}
	m.nextID++
	c := contact.Contact{
		ID:        fmt.Sprintf("contact-%d", m.nextID),
		UserID:    ownerID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthdate: req.Birthdate,
		Notes:     req.Notes,
	}
	m.contacts = append(m.contacts, c)
	return &c, nil
}

func (m *mockStore) UpdateContact(_ context.Context, ownerID, id string, req contact.UpdateRequest) (*contact.Contact, error) {
	if m.updateContactErr != nil {
		return nil, m.updateContactErr
	}
	for i := range m.contacts {
		if m.contacts[i].ID == id && m.contacts[i].UserID == ownerID {
			m.contacts[i].FirstName = req.FirstName
			m.contacts[i].LastName = req.LastName
			m.contacts[i].Email = req.Email
			m.contacts[i].Phone = req.Phone
			m.contacts[i].Birthdate = req.Birthdate
			m.contacts[i].Notes = req.Notes
			c := m.contacts[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) DeleteContact(_ context.Context, ownerID, id string) (*contact.Contact, error) {
	if m.deleteContactErr != nil {
		return nil, m.deleteContactErr
	}
	for i := range m.contacts {
		if m.contacts[i].ID == id && m.contacts[i].UserID == ownerID {
			c := m.contacts[i]
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListContactsWithBirthdays(_ context.Context, ownerID string) ([]contact.Contact, error) {
	if m.listContactsErr != nil {
		return nil, m.listContactsErr
	}
	var out []contact.Contact
	for _, c := range m.contacts {
		if c.UserID == ownerID && c.Birthdate != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// recordingInvalidator captures cache invalidation calls.
type recordingInvalidator struct {
	mu     sync.Mutex
	owners []string
}

func (r *recordingInvalidator) InvalidateOwner(_ context.Context, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, owner)
}

func (r *recordingInvalidator) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.owners...)
}

// mockMailer records outbound mail.
type mockMailer struct {
	verifications []string // recipient addresses
	resets        []string
	lastToken     string
	sendErr       error
}

func (m *mockMailer) SendVerification(_ context.Context, to, _, _, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.verifications = append(m.verifications, to)
	m.lastToken = token
	return nil
}

func (m *mockMailer) SendPasswordReset(_ context.Context, to, _, _, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.resets = append(m.resets, to)
	m.lastToken = token
	return nil
}

// mockUploader returns a fixed URL per username.
type mockUploader struct {
	uploadErr error
	uploaded  []string
}

func (m *mockUploader) Upload(_ context.Context, username string, _ io.Reader) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploaded = append(m.uploaded, username)
	return "https://img.example.com/avatars/" + username + ".png", nil
}
