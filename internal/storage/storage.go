// Package storage selects and constructs the configured storage backend.
package storage

import (
	"fmt"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/storage/localfs"
	"github.com/finch-money/finch/internal/storage/surrealdb"
)

// NewStorageManager creates the storage backend named by config.Storage.Driver:
// "surrealdb" (default) or "file".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	switch config.Storage.Driver {
	case "", "surrealdb":
		return surrealdb.NewManager(logger, config)
	case "file":
		return localfs.NewManager(logger, config.Storage.DataPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want surrealdb or file)", config.Storage.Driver)
	}
}
