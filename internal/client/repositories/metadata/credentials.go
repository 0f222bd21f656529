package metadata

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddelivery/internal/common"
	"github.com/dmitrijs2005/fooddelivery/internal/dbx"
)

const lastUsernameKey = "last_username"

// CredentialStore persists the credential token under the fixed key
// common.TokenStorageKey, plus the last username that signed in.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// LoadToken returns the persisted token, or "" when there is none.
func (s *CredentialStore) LoadToken(ctx context.Context) (string, error) {
	token, _, err := NewSQLiteRepository(s.db).Get(ctx, common.TokenStorageKey)
	return token, err
}

// SaveToken stores token and username atomically.
func (s *CredentialStore) SaveToken(ctx context.Context, token, username string) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenStorageKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, lastUsernameKey, username)
	})
}

// DeleteToken removes the token. The last username is kept so the next
// login prompt can offer it.
func (s *CredentialStore) DeleteToken(ctx context.Context) error {
	return NewSQLiteRepository(s.db).Delete(ctx, common.TokenStorageKey)
}

// LastUsername returns the username of the most recent successful login.
func (s *CredentialStore) LastUsername(ctx context.Context) (string, error) {
	name, _, err := NewSQLiteRepository(s.db).Get(ctx, lastUsernameKey)
	return name, err
}
