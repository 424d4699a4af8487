package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/cory-johannsen/angler/internal/config"
)

// NewRedisContainer starts Redis and returns settings for it with a key
// prefix unique to the test.
func NewRedisContainer(t *testing.T) config.RedisConfig {
	t.Helper()
	ep := startContainer(t, "redis:7-alpine", "6379", "Ready to accept connections", 1, nil)
	return config.RedisConfig{
		Addr:      fmt.Sprintf("%s:%d", ep.Host, ep.Port),
		KeyPrefix: fmt.Sprintf("test:%d:", time.Now().UnixNano()),
	}
}
