package events

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
)

// New returns the bus selected by cfg.EventBus.
func New(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) (Bus, error) {
	switch cfg.EventBus {
	case config.EventBusRedis, "":
		return NewRedisBus(rdb, log), nil
	case config.EventBusNATS:
		return NewNATSBus(cfg.NATSURL, log)
	default:
		return nil, fmt.Errorf("unknown event bus %q", cfg.EventBus)
	}
}
