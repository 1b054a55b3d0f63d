package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockdesk/console/config"
)

const redisPingTimeout = 5 * time.Second

const (
	redisModeDirect   = "direct"
	redisModeSentinel = "sentinel"
	redisModeCluster  = "cluster"
)

// RedisDeps contains configuration for the Redis connection.
type RedisDeps struct {
	Redis  config.RedisConfig
	Logger *slog.Logger
}

// ConnectRedis opens a direct, sentinel or cluster client and pings it.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, deps RedisDeps) (redis.UniversalClient, error) {
	opts, mode, err := redisOptions(deps.Redis)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch mode {
	case redisModeCluster:
		client = redis.NewClusterClient(opts.Cluster())
	case redisModeSentinel:
		client = redis.NewFailoverClient(opts.Failover())
	default:
		client = redis.NewClient(opts.Simple())
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis (%s): %w", mode, pingErr)
	}

	if deps.Logger != nil {
		deps.Logger.Info("redis connected",
			"mode", mode,
			"addrs", strings.Join(opts.Addrs, ","),
			"db", opts.DB,
		)
	}
	return client, nil
}

// redisOptions resolves the connection mode. Cluster and sentinel take
// precedence over the URI; a cluster without nodes falls back to the URI host.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	opts := &redis.UniversalOptions{Password: cfg.Password, DB: cfg.DB}

	switch {
	case cfg.UseCluster:
		opts.Addrs = trimAddrs(cfg.ClusterNodes)
		if len(opts.Addrs) == 0 {
			if err := applyRedisURI(opts, cfg.URI); err != nil {
				return nil, "", err
			}
		}
		if len(opts.Addrs) == 0 {
			return nil, "", errors.New("redis cluster configuration requires at least one address")
		}
		return opts, redisModeCluster, nil

	case cfg.UseSentinel:
		opts.Addrs = trimAddrs(cfg.SentinelNodes)
		if len(opts.Addrs) == 0 {
			return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		opts.MasterName = strings.TrimSpace(cfg.SentinelMasterName)
		if opts.MasterName == "" {
			return nil, "", errors.New("redis sentinel configuration requires a master name")
		}
		opts.SentinelPassword = cfg.SentinelPassword
		return opts, redisModeSentinel, nil

	default:
		if err := applyRedisURI(opts, cfg.URI); err != nil {
			return nil, "", err
		}
		if len(opts.Addrs) == 0 {
			return nil, "", errors.New("redis direct configuration requires a URI")
		}
		return opts, redisModeDirect, nil
	}
}

// applyRedisURI accepts host:port or a redis:// / rediss:// URL. Credentials
// and the database in the URL override the separate settings.
func applyRedisURI(opts *redis.UniversalOptions, uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.TLSConfig = parsed.TLSConfig
	if parsed.Username != "" {
		opts.Username = parsed.Username
	}
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	if parsed.DB != 0 {
		opts.DB = parsed.DB
	}
	return nil
}

func trimAddrs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		if a := strings.TrimSpace(addr); a != "" {
			out = append(out, a)
		}
	}
	return out
}
