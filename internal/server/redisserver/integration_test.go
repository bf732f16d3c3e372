package redisserver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newRedisClient connects a go-redis client speaking RESP2 to srv.
func newRedisClient(t *testing.T, srv *Server) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:            srv.Addr().String(),
		Protocol:        2,
		DisableIdentity: true,
		MaxRetries:      -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIntegration_Ping(t *testing.T) {
	srv, _ := startTestServer(t, nil)
	client := newRedisClient(t, srv)
	ctx := context.Background()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("PING failed: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("PING = %q, want PONG", pong)
	}
}

func TestIntegration_Echo(t *testing.T) {
	srv, _ := startTestServer(t, nil)
	client := newRedisClient(t, srv)
	ctx := context.Background()

	got, err := client.Echo(ctx, "hello world").Result()
	if err != nil {
		t.Fatalf("ECHO failed: %v", err)
	}
	if got != "hello world" {
		t.Errorf("ECHO = %q", got)
	}
}

func TestIntegration_SetGet(t *testing.T) {
	srv, _ := startTestServer(t, nil)
	client := newRedisClient(t, srv)
	ctx := context.Background()

	if err := client.Set(ctx, "greeting", "hi there", 0).Err(); err != nil {
		t.Fatalf("SET failed: %v", err)
	}
	got, err := client.Get(ctx, "greeting").Result()
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if got != "hi there" {
		t.Errorf("GET greeting = %q", got)
	}

	if _, err := client.Get(ctx, "nope").Result(); !errors.Is(err, redis.Nil) {
		t.Errorf("GET missing error = %v, want redis.Nil", err)
	}
}

func TestIntegration_SetPXExpires(t *testing.T) {
	srv, _ := startTestServer(t, nil)
	client := newRedisClient(t, srv)
	ctx := context.Background()

	// A sub-second expiration makes go-redis send PX.
	if err := client.Set(ctx, "session", "abc", 100*time.Millisecond).Err(); err != nil {
		t.Fatalf("SET PX failed: %v", err)
	}
	if got, err := client.Get(ctx, "session").Result(); err != nil || got != "abc" {
		t.Fatalf("GET before expiry = %q, %v", got, err)
	}

	time.Sleep(200 * time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for {
		_, err := client.Get(ctx, "session").Result()
		if errors.Is(err, redis.Nil) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("key did not expire, last error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIntegration_UnknownCommand(t *testing.T) {
	srv, _ := startTestServer(t, nil)
	client := newRedisClient(t, srv)
	ctx := context.Background()

	err := client.Do(ctx, "FLUSHALL").Err()
	if err == nil || !strings.Contains(err.Error(), "command not implemented: FLUSHALL") {
		t.Fatalf("FLUSHALL error = %v", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		t.Errorf("PING after unknown command failed: %v", err)
	}
}

func TestIntegration_OverwriteAndCaseInsensitiveCommands(t *testing.T) {
	srv, _ := startTestServer(t, nil)
	client := newRedisClient(t, srv)
	ctx := context.Background()

	if err := client.Do(ctx, "set", "k", "one").Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := client.Do(ctx, "SeT", "k", "two").Err(); err != nil {
		t.Fatalf("SeT failed: %v", err)
	}
	got, err := client.Do(ctx, "gEt", "k").Text()
	if err != nil {
		t.Fatalf("gEt failed: %v", err)
	}
	if got != "two" {
		t.Errorf("gEt k = %q, want two", got)
	}
}
