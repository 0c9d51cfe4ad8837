package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type Repository interface {
	GetClient(ctx context.Context, userID, clientID uint) (*models.Client, error)
	SetAvatar(ctx context.Context, userID, clientID uint, key, url string) error
}

// Processor turns an upload into the stored avatar bytes (WebP).
type Processor func(r io.Reader) ([]byte, error)

type UploadAvatar struct {
	repo    Repository
	store   ObjectStore
	process Processor
	audit   *audit.Dispatcher
}

func NewUploadAvatar(repo Repository, store ObjectStore, process Processor, audit *audit.Dispatcher) *UploadAvatar {
	return &UploadAvatar{repo: repo, store: store, process: process, audit: audit}
}

func (uc *UploadAvatar) Execute(ctx context.Context, userID, clientID uint, upload io.Reader) (*models.Client, error) {
	if uc.store == nil {
		return nil, httperr.ErrBusiness("storage_unavailable")
	}

	c, err := uc.repo.GetClient(ctx, userID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		return nil, err
	}

	img, err := uc.process(upload)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	key := fmt.Sprintf("users/%d/clients/%d/%s.webp", userID, clientID, uuid.NewString())
	if err := uc.store.Put(ctx, key, "image/webp", img); err != nil {
		return nil, err
	}

	url := uc.store.URL(key)
	if err := uc.repo.SetAvatar(ctx, userID, clientID, key, url); err != nil {
		_ = uc.store.Delete(ctx, key)
		return nil, err
	}

	if c.AvatarKey != "" {
		if err := uc.store.Delete(ctx, c.AvatarKey); err != nil {
			logging.FromContext(ctx).Warn("old avatar not removed", "key", c.AvatarKey, "error", err)
		}
	}

	c.AvatarKey = key
	c.AvatarURL = url

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "client_avatar_updated",
		Entity:   "client",
		EntityID: &c.ID,
	})

	return c, nil
}
