package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/config"
	"github.com/stemsi/portfolio-backend/internal/service"
)

// FileRemover deletes a stored upload by its public URL.
type FileRemover interface {
	Remove(url string) error
}

// UploadJanitor consumes the orphaned upload queue and deletes files that no
// submission references any more.
type UploadJanitor struct {
	rdb        *redis.Client
	files      FileRemover
	log        zerolog.Logger
	retryPause time.Duration
}

// NewUploadJanitor creates a new UploadJanitor.
func NewUploadJanitor(rdb *redis.Client, files FileRemover, log zerolog.Logger) *UploadJanitor {
	return &UploadJanitor{
		rdb:        rdb,
		files:      files,
		log:        log.With().Str("component", "upload_janitor").Logger(),
		retryPause: 5 * time.Second,
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *UploadJanitor) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *UploadJanitor) processNext(ctx context.Context) {
	queue := config.CacheKey.OrphanedUploadQueue()

	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.files.Remove(result[1]); err != nil {
		if !retryable(err) {
			w.log.Warn().Err(err).Str("url", result[1]).Msg("Dropping malformed queue entry")
			return
		}
		w.log.Error().Err(err).Str("url", result[1]).Msg("Remove failed, retrying later")
		w.rdb.RPush(context.Background(), queue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.retryPause):
		}
		return
	}
	w.log.Debug().Str("url", result[1]).Msg("Orphaned upload removed")
}

// drain removes all remaining queued files before shutdown.
func (w *UploadJanitor) drain(ctx context.Context) {
	queue := config.CacheKey.OrphanedUploadQueue()
	drained := 0
	for {
		url, err := w.rdb.LPop(ctx, queue).Result()
		if err != nil {
			break
		}
		if err := w.files.Remove(url); err != nil {
			if !retryable(err) {
				w.log.Warn().Err(err).Str("url", url).Msg("Dropping malformed queue entry")
				continue
			}
			w.log.Error().Err(err).Str("url", url).Msg("Drain remove error")
			w.rdb.RPush(ctx, queue, url)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

// retryable reports whether a failed removal may succeed later. Entries that
// are not upload URLs never will.
func retryable(err error) bool {
	return !errors.Is(err, service.ErrNotUploadURL)
}
