package cache

import (
	"context"
	"time"
)

// Cache stores JSON snapshots of read models. Misses and corrupt entries are
// reported as hit=false; only transport failures come back as errors.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const (
	profilesAllKey   = "profiles:all"
	profileUserKeyNS = "profiles:user:"
)

// ProfilesKey holds the public profile listing.
func ProfilesKey() string { return profilesAllKey }

// ProfileKey holds a single profile looked up by its owner's id (hex).
func ProfileKey(userID string) string { return profileUserKeyNS + userID }

// Nop never hits. Used when no Redis is configured.
type Nop struct{}

func (Nop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Del(context.Context, ...string) error                      { return nil }
