package redis_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/angler/internal/config"
	"github.com/cory-johannsen/angler/internal/storage"
	"github.com/cory-johannsen/angler/internal/storage/redis"
	"github.com/cory-johannsen/angler/internal/storage/storagetest"
	"github.com/cory-johannsen/angler/internal/testutil"
)

func TestStore_Conformance(t *testing.T) {
	cfg := testutil.NewRedisContainer(t)
	n := 0
	storagetest.Run(t, func(t *testing.T) storage.Store {
		n++
		c := cfg
		c.KeyPrefix = fmt.Sprintf("%s%d:", cfg.KeyPrefix, n)
		s, err := redis.Open(context.Background(), c)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := redis.Open(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
