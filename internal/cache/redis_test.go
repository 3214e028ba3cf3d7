// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("OCMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: OCMS_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := skipIfNoRedis(t)
	c, err := NewRedisCacheFromURL(url, "ocms-test:", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCacheFromURL: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	_ = c.Clear(context.Background())
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_TTL(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("v"), 100*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("Get expired error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "record:articles:1", []byte("1"), 0)
	_ = c.Set(ctx, "record:articles:2", []byte("2"), 0)
	_ = c.Set(ctx, "record:categories:1", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "record:articles:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if _, err := c.Get(ctx, "record:articles:1"); err != ErrCacheMiss {
		t.Errorf("record:articles:1 survived DeleteByPrefix")
	}
	if _, err := c.Get(ctx, "record:categories:1"); err != nil {
		t.Errorf("record:categories:1 removed: %v", err)
	}
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("http://localhost", "", 0); err == nil {
		t.Error("expected error for non-redis scheme")
	}
}
