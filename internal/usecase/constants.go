package usecase

import "time"

const (
	// DefaultPageLimit is used when a listing request omits a limit.
	DefaultPageLimit = 20

	// MaxPageLimit caps listing page sizes.
	MaxPageLimit = 100

	// WalletCacheTTL bounds staleness of cached wallet snapshots; every
	// write path invalidates the key as well.
	WalletCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
