package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/cache"
)

const (
	userKeyPrefix = "user:"

	// ProfileCacheTTL keeps resolved profiles hot between requests without
	// letting deactivations linger for long.
	ProfileCacheTTL = 5 * time.Minute
)

// ProfileCache caches password-excluded user profiles keyed by user id so
// the auth gateway avoids a database read on every request.
type ProfileCache struct {
	cache *cache.RedisCache
}

// NewProfileCache creates a new profile cache
func NewProfileCache(c *cache.RedisCache) *ProfileCache {
	return &ProfileCache{cache: c}
}

// Get returns the cached user, or nil on a miss. Cache errors are treated
// as misses so a flaky Redis degrades to database reads.
func (p *ProfileCache) Get(ctx context.Context, userID uuid.UUID) *model.User {
	var user model.User
	if err := p.cache.GetJSON(ctx, userKeyPrefix+userID.String(), &user); err != nil {
		return nil
	}
	return &user
}

// Set caches the user profile. The User JSON encoding excludes the
// password hash, so nothing sensitive lands in Redis.
func (p *ProfileCache) Set(ctx context.Context, user *model.User) error {
	return p.cache.SetJSON(ctx, userKeyPrefix+user.ID.String(), user, ProfileCacheTTL)
}

// Delete evicts the cached profile, forcing the next request to reload
// from the credential store.
func (p *ProfileCache) Delete(ctx context.Context, userID uuid.UUID) error {
	return p.cache.Delete(ctx, userKeyPrefix+userID.String())
}
