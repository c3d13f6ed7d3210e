package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

func newCache(t *testing.T, ttl time.Duration) (*RedisIdentityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisIdentityCache(client, ttl), mr
}

func ident(email string) model.CachedIdentity {
	return model.CachedIdentity{
		ID:         uuid.New(),
		Email:      email,
		IsVerified: true,
		AvatarURL:  "https://img.example.com/a.png",
		Role:       model.RoleUser,
	}
}

func TestCache_SetGet(t *testing.T) {
	cache, _ := newCache(t, time.Hour)
	ctx := context.Background()

	want := ident("a@x.com")
	if err := cache.Set(ctx, want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := cache.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if got != want {
		t.Fatalf("want %+v got %+v", want, got)
	}
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	cache, _ := newCache(t, time.Hour)

	_, ok, err := cache.Get(context.Background(), "ghost@x.com")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if ok {
		t.Fatal("absent key must be a miss, not an error")
	}
}

func TestCache_Purge(t *testing.T) {
	cache, _ := newCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, ident("a@x.com")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Purge(ctx, "a@x.com"); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	_, ok, _ := cache.Get(ctx, "a@x.com")
	if ok {
		t.Fatal("purged entry must be gone")
	}
}

func TestCache_EntryExpires(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, ident("a@x.com")); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	_, ok, _ := cache.Get(ctx, "a@x.com")
	if ok {
		t.Fatal("entry must expire after its TTL")
	}
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newCache(t, time.Hour)
	ctx := context.Background()

	mr.Set(keyPrefix+"a@x.com", "{not json")

	_, ok, err := cache.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("corrupt entry must not error: %v", err)
	}
	if ok {
		t.Fatal("corrupt entry must be a miss")
	}
	if mr.Exists(keyPrefix + "a@x.com") {
		t.Fatal("corrupt entry must be dropped")
	}
}
