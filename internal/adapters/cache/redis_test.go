package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-redis-url", 0); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is reserved and never serves Redis.
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0", 0); err == nil {
		t.Fatal("expected connection error")
	}
}
