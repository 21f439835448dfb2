package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const credentialKeyPrefix = "verigate:credential:"

// RedisMirror is a Redis-backed TokenMirror shared by every gateway instance.
type RedisMirror struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisMirror constructs a mirror over an externally managed client.
func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{client: client, now: time.Now}
}

// Load returns the mirrored credential for providerID. A missing key is not an error.
func (m *RedisMirror) Load(ctx context.Context, providerID string) (Credential, bool, error) {
	raw, err := m.client.Get(ctx, credentialKeyPrefix+providerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, fmt.Errorf("load credential: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return Credential{}, false, fmt.Errorf("decode credential: %w", err)
	}
	return cred, true, nil
}

// Save stores cred until it expires. Already-expired credentials are skipped.
func (m *RedisMirror) Save(ctx context.Context, cred Credential) error {
	ttl := cred.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	return m.client.Set(ctx, credentialKeyPrefix+cred.ProviderID, raw, ttl).Err()
}

// Delete drops the mirrored credential for providerID.
func (m *RedisMirror) Delete(ctx context.Context, providerID string) error {
	return m.client.Del(ctx, credentialKeyPrefix+providerID).Err()
}
