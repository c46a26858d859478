package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Station-Manager/spe/internal/config"
	"github.com/Station-Manager/spe/internal/poller"
)

// redisClient is the part of *redis.Client the sink uses.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	Close() error
}

// RedisSink publishes samples on a Pub/Sub channel and keeps the most
// recent ones in a list.
type RedisSink struct {
	client  redisClient
	channel string
	history int
	log     logrus.FieldLogger
}

// NewRedisSink connects to the server in cfg and checks it answers.
func NewRedisSink(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	log.WithField("addr", cfg.Addr).Info("redis connected")

	return newRedisSink(client, cfg.Channel, cfg.History, log), nil
}

func newRedisSink(client redisClient, channel string, history int, log logrus.FieldLogger) *RedisSink {
	return &RedisSink{client: client, channel: channel, history: history, log: log}
}

// historyKey is the list holding recent samples for one port.
func historyKey(port string) string {
	return fmt.Sprintf("spe:%s:samples", port)
}

// Publish sends s to subscribers and, when history is enabled, pushes it
// onto the capped list. A failed list update is only logged.
func (r *RedisSink) Publish(ctx context.Context, s poller.Sample) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("publish sample: %w", err)
	}

	if r.history <= 0 {
		return nil
	}

	key := historyKey(s.Port)
	if err := r.client.LPush(ctx, key, data).Err(); err != nil {
		r.log.WithError(err).Warn("save sample history")
		return nil
	}
	if err := r.client.LTrim(ctx, key, 0, int64(r.history-1)).Err(); err != nil {
		r.log.WithError(err).Warn("trim sample history")
	}
	return nil
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
