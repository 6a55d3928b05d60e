package tokencache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"
	"golang.org/x/oauth2"
)

// ValkeyCache persists tokens in a Valkey-compatible database so restarts skip the password grant.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "tokens"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements Cache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (*oauth2.Token, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(payload), &token); err != nil {
		return nil, false, err
	}
	return &token, true, nil
}

// Set implements Cache. TTLs under a second are ignored; EX has second resolution.
func (c *ValkeyCache) Set(ctx context.Context, key string, token *oauth2.Token, ttl time.Duration) error {
	if ttl < time.Second || token == nil {
		return nil
	}
	payload, err := json.Marshal(token)
	if err != nil {
		return err
	}
	cmd := c.client.B().Set().Key(c.key(key)).Value(string(payload)).Ex(ttl).Build()
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(key string) string {
	return c.prefix + ":" + key
}

var (
	_ Cache = (*ValkeyCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)
