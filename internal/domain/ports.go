package domain

import "context"

// DatasetLoader fetches the pre-computed snapshots this dashboard renders.
// Implementations are idempotent and side-effect free; memoization is
// layered on top (see app.CachedLoader).
type DatasetLoader interface {
	Reservations(ctx context.Context) ([]ReservationRecord, error)
	ClientFeatures(ctx context.Context) ([]ClientFeatureRecord, error)
	ModelFeatures(ctx context.Context) ([]ModelFeatureRecord, error)
	ModelBundle(ctx context.Context) (ModelBundle, error)
}

// Cache is the rendered-view cache (redis in production).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SecretStore resolves the auth configuration at startup.
type SecretStore interface {
	AuthConfig(ctx context.Context) (AuthConfig, error)
}

// UserCredential is one dashboard login. PasswordHash is a bcrypt hash.
type UserCredential struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
}

// AuthConfig is the secret payload: who may log in and how tokens are signed.
type AuthConfig struct {
	JWTSecret       string           `json:"jwt_secret"`
	TokenTTLMinutes int              `json:"token_ttl_minutes"`
	Users           []UserCredential `json:"users"`
}
