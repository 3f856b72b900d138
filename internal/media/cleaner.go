package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/casinohub/backend/pkg/queue"
)

// Enqueuer hands media removal to the background worker.
type Enqueuer interface {
	EnqueueMediaRemove(ctx context.Context, payload queue.MediaRemovePayload) error
}

// Cleaner removes media that no record references any more. Failures are logged
// and never surface to the caller, so a record delete is never blocked by its files.
type Cleaner struct {
	store  Store
	queue  Enqueuer
	logger *zap.Logger
}

// NewCleaner creates a Cleaner. With a nil queue removal happens inline.
func NewCleaner(store Store, q Enqueuer, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{store: store, queue: q, logger: logger}
}

// Discard schedules ref for removal. Empty refs are ignored.
func (c *Cleaner) Discard(ctx context.Context, ref, reason string) {
	if ref == "" {
		return
	}
	if c.queue != nil {
		err := c.queue.EnqueueMediaRemove(ctx, queue.MediaRemovePayload{Ref: ref, Reason: reason})
		if err == nil {
			return
		}
		c.logger.Warn("media cleanup enqueue failed, removing inline", zap.String("ref", ref), zap.Error(err))
	}
	if err := c.store.Remove(ctx, ref); err != nil {
		c.logger.Warn("media removal failed", zap.String("ref", ref), zap.String("reason", reason), zap.Error(err))
	}
}
