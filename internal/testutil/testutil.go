// Package testutil holds shared helpers for package tests: Redis discovery
// and envelope-speaking HTTP fakes.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisAddr is used when neither STOCKDESK_TEST_REDIS_ADDR nor REDIS_ADDR is set.
const DefaultRedisAddr = "localhost:6379"

// TestingTB is the subset of testing.TB used by these helpers.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// WriteEnvelope writes a JSON response in the server's {code, msg, ...} envelope.
// fields are merged into the top-level object next to code and msg.
func WriteEnvelope(w http.ResponseWriter, code int, msg string, fields map[string]any) {
	body := map[string]any{"code": code, "msg": msg}
	for k, v := range fields {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// RedisAddr returns the address of the Redis server used by tests.
func RedisAddr() string {
	for _, key := range []string{"STOCKDESK_TEST_REDIS_ADDR", "REDIS_ADDR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return DefaultRedisAddr
}

// redisDB reads TEST_REDIS_DB, defaulting to 0.
func redisDB(t TestingTB) int {
	v := os.Getenv("TEST_REDIS_DB")
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		t.Logf("invalid TEST_REDIS_DB=%q, using 0", v)
		return 0
	}
	return i
}

// SetupTestRedis connects to the test Redis server. The test is skipped when
// Redis is unreachable unless TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
// The client is closed when the test finishes.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := RedisAddr()
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          redisDB(t),
		DialTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// RedisKeyPrefix returns a key prefix unique to the calling test. Every key
// under it is deleted when the test finishes, so tests can share one database.
func RedisKeyPrefix(t TestingTB, client redis.UniversalClient) string {
	t.Helper()

	prefix := "stockdesk:test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			t.Logf("warning: scan %s*: %v", prefix, err)
			return
		}
		if len(keys) == 0 {
			return
		}
		if err := client.Del(ctx, keys...).Err(); err != nil {
			t.Logf("warning: delete test keys under %s: %v", prefix, err)
		}
	})
	return prefix
}
