package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fitclub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fitclub/internal/dbx"
)

const (
	keyCredential = "credential"
	keyUser       = "user"
)

// RepositoryFunc binds a metadata repository to a connection or transaction.
type RepositoryFunc func(db dbx.DBTX) metadata.Repository

func sqliteRepository(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// MetadataStorage keeps the session in the client database's metadata table,
// one row for the credential and one for the JSON user snapshot.
type MetadataStorage struct {
	db   *sql.DB
	repo RepositoryFunc
}

func NewMetadataStorage(db *sql.DB) *MetadataStorage {
	return NewMetadataStorageWith(db, sqliteRepository)
}

// NewMetadataStorageWith uses repo instead of the SQLite repository.
func NewMetadataStorageWith(db *sql.DB, repo RepositoryFunc) *MetadataStorage {
	return &MetadataStorage{db: db, repo: repo}
}

// Load reads both rows in one transaction so it never pairs a credential
// with a snapshot from a different Save.
func (m *MetadataStorage) Load(ctx context.Context) (Snapshot, error) {
	var credential, rawUser []byte
	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.repo(tx)

		var err error
		if credential, err = repo.Get(ctx, keyCredential); err != nil || len(credential) == 0 {
			return err
		}
		rawUser, err = repo.Get(ctx, keyUser)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}
	if len(credential) == 0 {
		return Snapshot{}, nil
	}

	snap := Snapshot{Credential: string(credential)}
	if len(rawUser) > 0 {
		if err := json.Unmarshal(rawUser, &snap.User); err != nil {
			return Snapshot{}, fmt.Errorf("%w: user: %v", ErrMalformed, err)
		}
	}
	return snap, nil
}

// Save writes credential and user in one transaction so a crash never leaves
// a credential paired with another account's snapshot.
func (m *MetadataStorage) Save(ctx context.Context, s Snapshot) error {
	var rawUser []byte
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		rawUser = b
	}

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.repo(tx)
		if err := repo.Set(ctx, keyCredential, []byte(s.Credential)); err != nil {
			return err
		}
		if rawUser == nil {
			return repo.Delete(ctx, keyUser)
		}
		return repo.Set(ctx, keyUser, rawUser)
	})
}

func (m *MetadataStorage) Erase(ctx context.Context) error {
	return m.repo(m.db).Delete(ctx, keyCredential, keyUser)
}
