package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorenh/crmdash/internal/domain/auth"
)

const (
	getAPIKeyByHashSQL = `SELECT id, name, key_hash, scopes, active
		FROM api_keys WHERE key_hash = $1 AND active = TRUE`

	upsertAPIKeySQL = `INSERT INTO api_keys (id, name, key_hash, scopes, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key_hash) DO UPDATE SET
			name = EXCLUDED.name,
			scopes = EXCLUDED.scopes,
			active = EXCLUDED.active`
)

var _ auth.Repository = (*APIKeyRepository)(nil)

// APIKeyRepository provides API key lookups backed by PostgreSQL.
type APIKeyRepository struct {
	pool *pgxpool.Pool
}

// NewAPIKeyRepository returns an APIKeyRepository that uses the given pool.
func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{pool: pool}
}

// FindByHash looks up an active API key by its HMAC-SHA256 hash.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*auth.APIKey, error) {
	var key auth.APIKey
	err := r.pool.QueryRow(ctx, getAPIKeyByHashSQL, hash).Scan(
		&key.ID, &key.Name, &key.KeyHash, &key.Scopes, &key.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrKeyNotFound
		}
		return nil, fmt.Errorf("finding api key by hash: %w", err)
	}
	return &key, nil
}

// Upsert inserts or replaces an API key record. Used by the seed tool.
func (r *APIKeyRepository) Upsert(ctx context.Context, key auth.APIKey) error {
	_, err := r.pool.Exec(ctx, upsertAPIKeySQL,
		key.ID, key.Name, key.KeyHash, key.Scopes, key.Active)
	if err != nil {
		return fmt.Errorf("upserting api key %q: %w", key.Name, err)
	}
	return nil
}
