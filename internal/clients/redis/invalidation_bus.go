package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

const DefaultChannel = "majoradvisor:config"

// Invalidation is published whenever a replica changes shared configuration.
type Invalidation struct {
	Origin string    `json:"origin"`
	Scope  string    `json:"scope"`
	SentAt time.Time `json:"sentAt"`
}

type InvalidationBus interface {
	Publish(ctx context.Context, scope string) error
	// StartForwarder subscribes and calls onMsg for every invalidation sent by
	// another replica until ctx is done.
	StartForwarder(ctx context.Context, onMsg func(Invalidation)) error
	Client() *goredis.Client
	Close() error
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type invalidationBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	origin  string
}

func NewInvalidationBus(ctx context.Context, log *logger.Logger, opts Options) (InvalidationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(opts.Channel)
	if ch == "" {
		ch = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &invalidationBus{
		log:     log.With("service", "InvalidationBus"),
		rdb:     rdb,
		channel: ch,
		origin:  uuid.NewString(),
	}, nil
}

func (b *invalidationBus) Client() *goredis.Client {
	if b == nil {
		return nil
	}
	return b.rdb
}

func (b *invalidationBus) Publish(ctx context.Context, scope string) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("invalidation bus not initialized")
	}
	raw, err := encodeInvalidation(Invalidation{Origin: b.origin, Scope: scope, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *invalidationBus) StartForwarder(ctx context.Context, onMsg func(Invalidation)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("invalidation bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				msg, err := decodeInvalidation(m.Payload)
				if err != nil {
					b.log.Warn("bad invalidation payload", "error", err)
					continue
				}
				if msg.Origin == b.origin {
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return nil
}

func (b *invalidationBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func encodeInvalidation(msg Invalidation) ([]byte, error) {
	return json.Marshal(msg)
}

func decodeInvalidation(payload string) (Invalidation, error) {
	var msg Invalidation
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return Invalidation{}, err
	}
	if strings.TrimSpace(msg.Scope) == "" {
		return Invalidation{}, fmt.Errorf("invalidation scope missing")
	}
	return msg, nil
}
