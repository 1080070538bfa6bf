package service

import (
	"context"
	"fmt"
	"io"

	"github.com/contactd/contactd/internal/cache"
	"github.com/contactd/contactd/internal/domain/user"
	"github.com/contactd/contactd/internal/port/avatar"
	"github.com/contactd/contactd/internal/port/database"
)

// UserService handles profile reads and avatar updates.
type UserService struct {
	store    database.Store
	uploader avatar.Uploader
	inv      cache.Invalidator
}

// NewUserService creates a new user profile service.
func NewUserService(store database.Store, uploader avatar.Uploader, inv cache.Invalidator) *UserService {
	return &UserService{store: store, uploader: uploader, inv: inv}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*user.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateAvatar uploads a new profile image, stores its URL, and invalidates
// the owner's cached responses so /users/me reflects the change immediately.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file io.Reader) (*user.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	url, err := s.uploader.Upload(ctx, u.Username, file)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	u.AvatarURL = url
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.inv.InvalidateOwner(ctx, userID)
	return u, nil
}
