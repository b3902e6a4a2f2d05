package voteguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard records one vote per (complaint, voter) pair as a Redis key.
type RedisGuard struct {
	Client *redis.Client
	// TTL bounds how long a vote is remembered; zero keeps it forever.
	TTL time.Duration
}

func New(ctx context.Context, url string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisGuard{Client: client, TTL: ttl}, nil
}

func key(complaintID, voterID string) string {
	return "vote:" + complaintID + ":" + voterID
}

// Claim reports false when the voter already voted on the complaint.
func (g *RedisGuard) Claim(ctx context.Context, complaintID, voterID string) (bool, error) {
	return g.Client.SetNX(ctx, key(complaintID, voterID), time.Now().Unix(), g.TTL).Result()
}

func (g *RedisGuard) Release(ctx context.Context, complaintID, voterID string) error {
	return g.Client.Del(ctx, key(complaintID, voterID)).Err()
}

func (g *RedisGuard) Close() error {
	return g.Client.Close()
}
