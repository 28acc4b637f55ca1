package app

import (
	"context"
	"fmt"

	"github.com/yungbote/majoradvisor-backend/internal/clients/redis"
	"github.com/yungbote/majoradvisor-backend/internal/platform/llm"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type Clients struct {
	// Bus is nil when REDIS_ADDR is unset; each replica then only sees its
	// own settings changes until the cache TTL expires.
	Bus redis.InvalidationBus
	LLM llm.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var bus redis.InvalidationBus
	if cfg.RedisAddr != "" {
		b, err := redis.NewInvalidationBus(ctx, log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis invalidation bus: %w", err)
		}
		bus = b
	} else {
		log.Warn("REDIS_ADDR not set; AI settings invalidation stays local to this replica")
	}

	return Clients{
		Bus: bus,
		LLM: llm.NewClient(log, nil),
	}, nil
}
