// Package localfs implements Finch storage as JSON files on the local
// filesystem. One file per record, namespaced by user. The store assumes
// exclusive ownership of its data directory by a single process.
package localfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// Manager implements interfaces.StorageManager on the local filesystem.
type Manager struct {
	basePath    string
	internalDir string
	userDir     string
	logger      *common.Logger

	mu sync.RWMutex
}

// NewManager creates a file-backed StorageManager rooted at path.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store path %s: %w", path, err)
	}
	internalDir := filepath.Join(path, "internal")
	userDir := filepath.Join(path, "user")
	if err := os.MkdirAll(internalDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create internal dir: %w", err)
	}
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create user dir: %w", err)
	}

	logger.Info().Str("path", path).Msg("File storage manager initialized")
	return &Manager{
		basePath:    path,
		internalDir: internalDir,
		userDir:     userDir,
		logger:      logger,
	}, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return &internalStore{m: m}
}

func (m *Manager) UserDataStore() interfaces.UserDataStore {
	return &userDataStore{m: m}
}

func (m *Manager) DataPath() string {
	return m.basePath
}

// WriteRaw writes arbitrary binary data to a subdirectory atomically.
func (m *Manager) WriteRaw(subdir, key string, data []byte) error {
	dir := filepath.Join(m.basePath, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return atomicWrite(filepath.Join(dir, sanitize(key)), data)
}

func (m *Manager) Close() error {
	return nil
}

// atomicWrite writes data via a temp file and rename.
func atomicWrite(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func writeJSON(target string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return atomicWrite(target, data)
}

func readJSON(target string, v any) error {
	data, err := os.ReadFile(target)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// sanitize strips path separators and other unsafe characters from a
// filename component.
func sanitize(s string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return r.Replace(s)
}

// --- InternalStore ---

type internalStore struct {
	m *Manager
}

func (s *internalStore) userPath(userID string) string {
	return filepath.Join(s.m.internalDir, "user_"+sanitize(userID)+".json")
}

func (s *internalStore) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var user models.InternalUser
	if err := readJSON(s.userPath(userID), &user); err != nil {
		if os.IsNotExist(err) {
			return nil, &models.NotFoundError{Entity: "user", ID: userID}
		}
		return nil, fmt.Errorf("failed to read user %s: %w", userID, err)
	}
	return &user, nil
}

func (s *internalStore) GetUserByUsername(ctx context.Context, username string) (*models.InternalUser, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	entries, err := os.ReadDir(s.m.internalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "user_") {
			continue
		}
		var user models.InternalUser
		if err := readJSON(filepath.Join(s.m.internalDir, e.Name()), &user); err != nil {
			continue
		}
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, &models.NotFoundError{Entity: "user", ID: username}
}

func (s *internalStore) SaveUser(_ context.Context, user *models.InternalUser) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return writeJSON(s.userPath(user.UserID), user)
}

func (s *internalStore) DeleteUser(_ context.Context, userID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := os.Remove(s.userPath(userID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

func (s *internalStore) ListUsers(_ context.Context) ([]string, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	entries, err := os.ReadDir(s.m.internalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	var userIDs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "user_") {
			continue
		}
		var user models.InternalUser
		if err := readJSON(filepath.Join(s.m.internalDir, e.Name()), &user); err != nil {
			continue
		}
		if user.UserID != "" {
			userIDs = append(userIDs, user.UserID)
		}
	}
	return userIDs, nil
}

func (s *internalStore) kvPath(userID, key string) string {
	return filepath.Join(s.m.internalDir, "kv_"+sanitize(userID)+"_"+sanitize(key)+".json")
}

func (s *internalStore) GetUserKV(_ context.Context, userID, key string) (*models.UserKeyValue, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var kv models.UserKeyValue
	if err := readJSON(s.kvPath(userID, key), &kv); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("user KV not found")
		}
		return nil, fmt.Errorf("failed to read user KV: %w", err)
	}
	return &kv, nil
}

func (s *internalStore) SetUserKV(_ context.Context, userID, key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	kv := models.UserKeyValue{
		UserID:   userID,
		Key:      key,
		Value:    value,
		DateTime: time.Now(),
	}
	return writeJSON(s.kvPath(userID, key), &kv)
}

func (s *internalStore) DeleteUserKV(_ context.Context, userID, key string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := os.Remove(s.kvPath(userID, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete user KV: %w", err)
	}
	return nil
}

func (s *internalStore) sysKVPath(key string) string {
	return filepath.Join(s.m.internalDir, "syskv_"+sanitize(key)+".json")
}

func (s *internalStore) GetSystemKV(_ context.Context, key string) (string, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var kv models.UserKeyValue
	if err := readJSON(s.sysKVPath(key), &kv); err != nil {
		return "", fmt.Errorf("system KV not found")
	}
	return kv.Value, nil
}

func (s *internalStore) SetSystemKV(_ context.Context, key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	kv := models.UserKeyValue{Key: key, Value: value, DateTime: time.Now()}
	return writeJSON(s.sysKVPath(key), &kv)
}

func (s *internalStore) Close() error {
	return nil
}

// --- UserDataStore ---

type userDataStore struct {
	m *Manager
}

func (s *userDataStore) recordPath(userID, subject, key string) string {
	return filepath.Join(s.m.userDir, sanitize(userID), sanitize(subject), sanitize(key)+".json")
}

func (s *userDataStore) Get(_ context.Context, userID, subject, key string) (*models.UserRecord, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var rec models.UserRecord
	if err := readJSON(s.recordPath(userID, subject, key), &rec); err != nil {
		if os.IsNotExist(err) {
			return nil, &models.NotFoundError{Entity: subject, ID: key}
		}
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}
	return &rec, nil
}

func (s *userDataStore) Put(_ context.Context, record *models.UserRecord) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	record.Version++
	if record.DateTime.IsZero() {
		record.DateTime = time.Now()
	}

	target := s.recordPath(record.UserID, record.Subject, record.Key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create record dir: %w", err)
	}
	return writeJSON(target, record)
}

func (s *userDataStore) Delete(_ context.Context, userID, subject, key string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := os.Remove(s.recordPath(userID, subject, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete user record: %w", err)
	}
	return nil
}

func (s *userDataStore) List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error) {
	return s.Query(ctx, userID, subject, interfaces.QueryOptions{})
}

func (s *userDataStore) Query(_ context.Context, userID, subject string, opts interfaces.QueryOptions) ([]*models.UserRecord, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	dir := filepath.Join(s.m.userDir, sanitize(userID), sanitize(subject))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}

	var records []*models.UserRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var rec models.UserRecord
		if err := readJSON(filepath.Join(dir, e.Name()), &rec); err != nil {
			s.m.logger.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable record")
			continue
		}
		records = append(records, &rec)
	}

	if opts.OrderBy == "datetime_asc" {
		sort.Slice(records, func(i, j int) bool {
			return records[i].DateTime.Before(records[j].DateTime)
		})
	} else {
		sort.Slice(records, func(i, j int) bool {
			return records[i].DateTime.After(records[j].DateTime)
		})
	}

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, nil
}

func (s *userDataStore) DeleteBySubject(_ context.Context, userID, subject string) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	dir := filepath.Join(s.m.userDir, sanitize(userID), sanitize(subject))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan records: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			count++
		}
	}
	return count, nil
}

func (s *userDataStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
