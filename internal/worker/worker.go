// Package worker runs background jobs pulled from the Redis queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/casinohub/backend/pkg/queue"
)

// JobSource is the queue side the worker consumes.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// Remover deletes stored media by reference.
type Remover interface {
	Remove(ctx context.Context, ref string) error
}

// MediaCleanupProcessor removes media that records no longer reference.
type MediaCleanupProcessor struct {
	source  JobSource
	store   Remover
	logger  *zap.Logger
	backoff time.Duration
}

// NewMediaCleanupProcessor creates a media cleanup processor.
func NewMediaCleanupProcessor(source JobSource, store Remover, logger *zap.Logger) *MediaCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaCleanupProcessor{source: source, store: store, logger: logger, backoff: queue.RetryBackoff}
}

// Process executes one media removal job.
func (p *MediaCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeMediaRemove {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.MediaRemovePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.Ref == "" {
		return nil
	}
	if err := p.store.Remove(ctx, payload.Ref); err != nil {
		return fmt.Errorf("remove %s: %w", payload.Ref, err)
	}
	p.logger.Info("media removed", zap.String("ref", payload.Ref), zap.String("reason", payload.Reason))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error. It returns when ctx is cancelled.
func (p *MediaCleanupProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("media cleanup worker stopping")
			return
		default:
		}

		job, err := p.source.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.wait(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.source.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.wait(ctx)
		}
	}
}

func (p *MediaCleanupProcessor) wait(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
