// Package cachetest provides a compliance test suite that every Cache
// backend must pass.
package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/contactd/contactd/internal/port/cache"
)

// Run exercises the full Cache contract against c.
func Run(t *testing.T, c cache.Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		if err := c.Set(ctx, "compliance:key", []byte("compliance-val"), time.Minute); err != nil {
			t.Fatal(err)
		}
		val, found, err := c.Get(ctx, "compliance:key")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after Set")
		}
		if string(val) != "compliance-val" {
			t.Fatalf("expected compliance-val, got %s", val)
		}
	})

	t.Run("GetMiss", func(t *testing.T) {
		_, found, err := c.Get(ctx, "compliance:nonexistent")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss for nonexistent key")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Set(ctx, "compliance:del", []byte("del-val"), time.Minute)
		if err := c.Delete(ctx, "compliance:del"); err != nil {
			t.Fatal(err)
		}
		_, found, err := c.Get(ctx, "compliance:del")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss after Delete")
		}
	})

	t.Run("DeleteNonexistent", func(t *testing.T) {
		if err := c.Delete(ctx, "compliance:never-existed"); err != nil {
			t.Fatal("Delete of nonexistent key should not error")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		_ = c.Set(ctx, "compliance:ow", []byte("v1"), time.Minute)
		_ = c.Set(ctx, "compliance:ow", []byte("v2"), time.Minute)
		val, found, err := c.Get(ctx, "compliance:ow")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after overwrite")
		}
		if string(val) != "v2" {
			t.Fatalf("expected v2 after overwrite, got %s", val)
		}
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		if err := c.Set(ctx, "compliance:ttl", []byte("short-lived"), 50*time.Millisecond); err != nil {
			t.Fatal(err)
		}
		time.Sleep(150 * time.Millisecond)
		_, found, err := c.Get(ctx, "compliance:ttl")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected entry to expire without an explicit delete")
		}
	})

	t.Run("DeleteByPrefix", func(t *testing.T) {
		_ = c.Set(ctx, "compliance:owner-a:1", []byte("a1"), time.Minute)
		_ = c.Set(ctx, "compliance:owner-a:2", []byte("a2"), time.Minute)
		_ = c.Set(ctx, "compliance:owner-b:1", []byte("b1"), time.Minute)

		n, err := c.DeleteByPrefix(ctx, "compliance:owner-a:")
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Fatalf("expected 2 deletions, got %d", n)
		}

		for _, key := range []string{"compliance:owner-a:1", "compliance:owner-a:2"} {
			if _, found, _ := c.Get(ctx, key); found {
				t.Fatalf("key %s survived prefix delete", key)
			}
		}
		if _, found, _ := c.Get(ctx, "compliance:owner-b:1"); !found {
			t.Fatal("prefix delete removed another owner's key")
		}
	})

	t.Run("DeleteByPrefixEmpty", func(t *testing.T) {
		n, err := c.DeleteByPrefix(ctx, "compliance:no-such-prefix:")
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("expected 0 deletions, got %d", n)
		}
	})
}
