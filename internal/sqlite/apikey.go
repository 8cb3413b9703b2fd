package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/tally/internal/repository"
)

// APIKeyRepository maps bearer tokens to user identifiers. Only token
// hashes are stored.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create registers token for userID.
func (r *APIKeyRepository) Create(ctx context.Context, token, userID, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), userID, time.Now(), description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolveUser returns the user owning token and stamps its last use.
func (r *APIKeyRepository) ResolveUser(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)

	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && userID == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash)

	return userID, nil
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
