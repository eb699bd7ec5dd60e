// Package interfaces defines service and storage contracts for Finch
package interfaces

import (
	"context"

	"github.com/finch-money/finch/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	// InternalStore holds user accounts and config KV.
	InternalStore() InternalStore
	// UserDataStore holds all per-user domain data as generic records.
	UserDataStore() UserDataStore

	// DataPath returns the base data directory path (chart output, file driver).
	DataPath() string

	// WriteRaw writes arbitrary binary data (e.g. rendered charts) to a
	// subdirectory atomically. Key is sanitized for safe filenames.
	WriteRaw(subdir, key string, data []byte) error

	Close() error
}

// InternalStore manages user accounts, per-user config, and system-level KV.
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByUsername(ctx context.Context, username string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error)
	SetUserKV(ctx context.Context, userID, key, value string) error
	DeleteUserKV(ctx context.Context, userID, key string) error

	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// UserDataStore manages all user domain data via generic records.
// Records are namespaced by (userID, subject, key); subjects correspond to
// entity collections ("account", "transaction", "budget", ...).
type UserDataStore interface {
	Get(ctx context.Context, userID, subject, key string) (*models.UserRecord, error)
	Put(ctx context.Context, record *models.UserRecord) error
	Delete(ctx context.Context, userID, subject, key string) error
	List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error)
	Query(ctx context.Context, userID, subject string, opts QueryOptions) ([]*models.UserRecord, error)
	DeleteBySubject(ctx context.Context, userID, subject string) (int, error)
	Close() error
}

// QueryOptions configures query behavior for UserDataStore.
type QueryOptions struct {
	Limit   int
	OrderBy string // "datetime_desc" (default), "datetime_asc"
}
