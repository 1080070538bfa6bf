package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contactd/contactd/internal/domain/user"
)

func TestUserService_UpdateAvatar(t *testing.T) {
	store := &mockStore{users: []user.User{{ID: "u1", Username: "john", Email: "john@example.com"}}}
	up := &mockUploader{}
	inv := &recordingInvalidator{}
	svc := NewUserService(store, up, inv)

	u, err := svc.UpdateAvatar(context.Background(), "u1", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	if u.AvatarURL != "https://img.example.com/avatars/john.png" {
		t.Errorf("avatar url = %q", u.AvatarURL)
	}

	stored, err := store.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.AvatarURL != u.AvatarURL {
		t.Error("avatar url not persisted")
	}
	if calls := inv.calls(); len(calls) != 1 || calls[0] != "u1" {
		t.Errorf("invalidations = %v, want [u1]", calls)
	}
}

func TestUserService_UploadFailureSkipsInvalidation(t *testing.T) {
	store := &mockStore{users: []user.User{{ID: "u1", Username: "john"}}}
	up := &mockUploader{uploadErr: errors.New("image host down")}
	inv := &recordingInvalidator{}
	svc := NewUserService(store, up, inv)

	if _, err := svc.UpdateAvatar(context.Background(), "u1", strings.NewReader("x")); err == nil {
		t.Fatal("expected upload error")
	}
	if len(inv.calls()) != 0 {
		t.Error("failed upload must not invalidate")
	}

	stored, _ := store.GetUser(context.Background(), "u1")
	if stored.AvatarURL != "" {
		t.Error("avatar url set despite failed upload")
	}
}
