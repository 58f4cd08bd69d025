package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "commission:lookup:1:2:dmt", GenerateKey("commission", "lookup", "1:2:dmt"))
}

func TestCacheService_Unreachable(t *testing.T) {
	// nothing listens on port 1; every call must fail fast rather than report a hit
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	s := NewCacheService(client, time.Minute)
	defer s.Close()

	ctx := context.Background()
	var dest map[string]string
	found, err := s.Get(ctx, "k", &dest)
	assert.False(t, found)
	assert.Error(t, err)

	assert.Error(t, s.Set(ctx, "k", map[string]string{"a": "b"}))
	assert.Error(t, s.HealthCheck(ctx))
	assert.NoError(t, s.Delete(ctx))

	require.NotNil(t, s.GetStats())
}
