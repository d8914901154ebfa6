package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteCache_SetAndGet(t *testing.T) {
	dir := t.TempDir()

	c, err := NewSQLiteCache(dir, 0)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	if _, found, err := c.Get(ctx, "k"); err != nil || found {
		t.Fatalf("expected miss on empty cache, found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, "k", []byte(`{"orders":[]}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	body, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || string(body) != `{"orders":[]}` {
		t.Errorf("unexpected entry: found=%v body=%s", found, body)
	}

	if c.Path() != filepath.Join(dir, DBFile) {
		t.Errorf("unexpected path %s", c.Path())
	}
}

func TestSQLiteCache_Overwrite(t *testing.T) {
	c, err := NewSQLiteCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", []byte("old"))
	c.Set(ctx, "k", []byte("new"))

	body, _, _ := c.Get(ctx, "k")
	if string(body) != "new" {
		t.Errorf("expected overwritten body, got %s", body)
	}

	n, err := c.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("expected 1 entry, got %d (err=%v)", n, err)
	}
}

func TestSQLiteCache_Delete(t *testing.T) {
	c, _ := NewSQLiteCache(t.TempDir(), 0)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("entry should be gone after delete")
	}
}

func TestSQLiteCache_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c1, _ := NewSQLiteCache(dir, 0)
	c1.Set(ctx, "k", []byte("persisted"))
	c1.Close()

	c2, err := NewSQLiteCache(dir, 0)
	if err != nil {
		t.Fatalf("failed to reopen cache: %v", err)
	}
	defer c2.Close()

	body, found, _ := c2.Get(ctx, "k")
	if !found || string(body) != "persisted" {
		t.Errorf("expected persisted entry, found=%v body=%s", found, body)
	}
}

func TestSQLiteCache_TTL(t *testing.T) {
	c, _ := NewSQLiteCache(t.TempDir(), time.Minute)
	defer c.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))

	now = now.Add(30 * time.Second)
	if _, found, _ := c.Get(ctx, "k"); !found {
		t.Error("entry should still be fresh")
	}

	now = now.Add(time.Minute)
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("entry should have expired")
	}
}
