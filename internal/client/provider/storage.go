package provider

import (
	"context"

	"github.com/dmitrijs2005/dsatracker/internal/client/repositories/metadata"
)

const StorageName = "storage"

// StorageProvider keeps the credential string in the metadata table.
type StorageProvider struct {
	repo metadata.Repository
}

func NewStorageProvider(repo metadata.Repository) *StorageProvider {
	return &StorageProvider{repo: repo}
}

func (p *StorageProvider) Name() string { return StorageName }

func (p *StorageProvider) Acquire(ctx context.Context) (string, bool, error) {
	v, err := p.repo.Get(ctx, metadata.KeyCredential)
	if err != nil {
		return "", false, err
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

func (p *StorageProvider) Persist(ctx context.Context, raw string) error {
	if raw == "" {
		return p.Clear(ctx)
	}
	return p.repo.Set(ctx, metadata.KeyCredential, []byte(raw))
}

func (p *StorageProvider) Clear(ctx context.Context) error {
	return p.repo.Delete(ctx, metadata.KeyCredential)
}

func (p *StorageProvider) IsPresent(ctx context.Context) (bool, error) {
	_, ok, err := p.Acquire(ctx)
	return ok, err
}
