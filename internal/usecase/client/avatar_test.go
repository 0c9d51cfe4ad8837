package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type memClients struct {
	clients map[uint]models.Client
	failSet error
}

func (m *memClients) GetClient(_ context.Context, userID, clientID uint) (*models.Client, error) {
	c, ok := m.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (m *memClients) SetAvatar(_ context.Context, _, clientID uint, key, url string) error {
	if m.failSet != nil {
		return m.failSet
	}
	c := m.clients[clientID]
	c.AvatarKey, c.AvatarURL = key, url
	m.clients[clientID] = c
	return nil
}

type memStore struct {
	objects map[string][]byte
}

func (s *memStore) Put(_ context.Context, key, _ string, body []byte) error {
	s.objects[key] = body
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *memStore) URL(key string) string { return "https://cdn.example/" + key }

func passthrough(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil || len(b) == 0 {
		return nil, errors.New("empty")
	}
	return b, nil
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the previous object", func(t *testing.T) {
		repo := &memClients{clients: map[uint]models.Client{
			5: {ID: 5, UserID: 1, Name: "Ana", AvatarKey: "old.webp"},
		}}
		store := &memStore{objects: map[string][]byte{"old.webp": []byte("x")}}

		c, err := NewUploadAvatar(repo, store, passthrough, nil).Execute(ctx, 1, 5, strings.NewReader("img"))
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := store.objects["old.webp"]; ok {
			t.Fatal("old avatar should be deleted")
		}
		if _, ok := store.objects[c.AvatarKey]; !ok || len(store.objects) != 1 {
			t.Fatalf("new avatar not stored: %v", store.objects)
		}
		if !strings.HasPrefix(c.AvatarKey, "users/1/clients/5/") || repo.clients[5].AvatarURL != c.AvatarURL {
			t.Fatalf("unexpected %+v", c)
		}
	})

	t.Run("rolls back the object when the row update fails", func(t *testing.T) {
		repo := &memClients{
			clients: map[uint]models.Client{5: {ID: 5, UserID: 1}},
			failSet: errors.New("db down"),
		}
		store := &memStore{objects: map[string][]byte{}}

		if _, err := NewUploadAvatar(repo, store, passthrough, nil).Execute(ctx, 1, 5, strings.NewReader("img")); err == nil {
			t.Fatal("expected error")
		}
		if len(store.objects) != 0 {
			t.Fatalf("expected no stored objects, got %d", len(store.objects))
		}
	})

	t.Run("business errors", func(t *testing.T) {
		repo := &memClients{clients: map[uint]models.Client{5: {ID: 5, UserID: 1}}}
		store := &memStore{objects: map[string][]byte{}}
		uc := NewUploadAvatar(repo, store, passthrough, nil)

		if _, err := uc.Execute(ctx, 2, 5, strings.NewReader("img")); !httperr.IsBusiness(err, "client_not_found") {
			t.Fatalf("expected client_not_found, got %v", err)
		}
		if _, err := uc.Execute(ctx, 1, 5, strings.NewReader("")); !httperr.IsBusiness(err, "invalid_image") {
			t.Fatalf("expected invalid_image, got %v", err)
		}
		if _, err := NewUploadAvatar(repo, nil, passthrough, nil).Execute(ctx, 1, 5, nil); !httperr.IsBusiness(err, "storage_unavailable") {
			t.Fatalf("expected storage_unavailable, got %v", err)
		}
	})
}
