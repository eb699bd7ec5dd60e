// Package repos provides typed repositories over the generic user data
// store. Each entity collection maps to a record subject; entities are
// stored as JSON in the record value.
package repos

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// Record subjects for the user data store.
const (
	SubjectAccount     = "account"
	SubjectTransaction = "transaction"
	SubjectCategory    = "category"
	SubjectBudget      = "budget"
	SubjectShopping    = "shopping"
	SubjectSettings    = "settings"
)

// NewID generates a short random entity ID with the given prefix,
// e.g. "txn_a1b2c3d4".
func NewID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return prefix + "_00000000"
	}
	return prefix + "_" + hex.EncodeToString(b)
}

func putJSON(ctx context.Context, store interfaces.UserDataStore, userID, subject, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", subject, key, err)
	}
	return store.Put(ctx, &models.UserRecord{
		UserID:  userID,
		Subject: subject,
		Key:     key,
		Value:   string(data),
	})
}

func getJSON(ctx context.Context, store interfaces.UserDataStore, userID, subject, key string, v any) error {
	rec, err := store.Get(ctx, userID, subject, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(rec.Value), v); err != nil {
		return fmt.Errorf("failed to unmarshal %s %s: %w", subject, key, err)
	}
	return nil
}
