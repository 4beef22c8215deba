package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dsatracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dsatracker/internal/dbx"
)

// Identity is the durable record of who is signed in on this device.
type Identity struct {
	Username string
	// Credential is the readable credential, empty when only an opaque
	// cookie (or nothing) is held.
	Credential string
	// Present is the chain-wide presence of any credential.
	Present bool
}

// Empty reports whether nothing at all is stored.
func (i Identity) Empty() bool {
	return i.Username == "" && !i.Present
}

// Complete reports whether a username and some credential are both stored.
func (i Identity) Complete() bool {
	return i.Username != "" && i.Present
}

// IdentityStore keeps the username and the credential chain consistent:
// both are written together and cleared together, in one transaction.
type IdentityStore struct {
	db    *sql.DB
	repo  metadata.Repository
	chain *Chain
}

func NewIdentityStore(db *sql.DB, repo metadata.Repository, chain *Chain) *IdentityStore {
	return &IdentityStore{db: db, repo: repo, chain: chain}
}

func (s *IdentityStore) Chain() *Chain {
	return s.chain
}

func (s *IdentityStore) Load(ctx context.Context) (Identity, error) {
	username, err := s.repo.Get(ctx, metadata.KeyUsername)
	if err != nil {
		return Identity{}, fmt.Errorf("load username: %w", err)
	}
	raw, _, err := s.chain.Acquire(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("acquire credential: %w", err)
	}
	present, err := s.chain.IsPresent(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("credential presence: %w", err)
	}
	return Identity{Username: string(username), Credential: raw, Present: present}, nil
}

// Save stores username and hands credential to every provider.
func (s *IdentityStore) Save(ctx context.Context, username, credential string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, _ dbx.DBTX) error {
		if err := s.repo.Set(ctx, metadata.KeyUsername, []byte(username)); err != nil {
			return err
		}
		return s.chain.Persist(ctx, credential)
	})
}

// Clear removes the username and clears every provider. When Clear owns the
// transaction and it rolls back, providers reload their in-memory state so it
// matches the restored rows.
func (s *IdentityStore) Clear(ctx context.Context) error {
	owned := !dbx.InTx(ctx)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, _ dbx.DBTX) error {
		if err := s.repo.Delete(ctx, metadata.KeyUsername); err != nil {
			return err
		}
		return s.chain.Clear(ctx)
	})
	if err != nil && owned {
		if rerr := s.chain.reload(ctx); rerr != nil {
			err = errors.Join(err, fmt.Errorf("reload providers: %w", rerr))
		}
	}
	return err
}
