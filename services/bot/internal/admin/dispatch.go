package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"adsbot/pkg/queue"
	"adsbot/services/bot/internal/lifecycle"
)

// Enqueuer accepts background moderation jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, kind string, adID int64) (queue.Job, error)
}

// Dispatcher routes forward and publish work either through the job queue
// or inline when no queue is configured or it is unavailable.
type Dispatcher struct {
	svc   *Service
	queue Enqueuer
}

// NewDispatcher builds a dispatcher. q may be nil.
func NewDispatcher(svc *Service, q Enqueuer) *Dispatcher {
	d := &Dispatcher{svc: svc, queue: q}
	svc.republisher = d
	return d
}

// Forward hands a submitted ad to moderation.
func (d *Dispatcher) Forward(ctx context.Context, adID int64) error {
	if d.queue != nil {
		job, err := d.queue.Enqueue(ctx, queue.KindModerate, adID)
		if err == nil {
			slog.Info("moderation job queued", "job_id", job.ID, "ad_id", adID)
			return nil
		}
		slog.Warn("enqueue moderation job failed, forwarding inline", "ad_id", adID, "err", err)
	}
	return d.svc.Forward(ctx, adID)
}

// Republish retries posting an approved ad to the channel. It reports
// whether the work was queued rather than done inline.
func (d *Dispatcher) Republish(ctx context.Context, adID int64) (bool, error) {
	if d.queue != nil {
		_, err := d.queue.Enqueue(ctx, queue.KindPublish, adID)
		if err == nil {
			return true, nil
		}
		slog.Warn("enqueue publish job failed, publishing inline", "ad_id", adID, "err", err)
	}
	return false, d.svc.Publish(ctx, adID)
}

// HandleJob executes one queued job. Jobs about ads that are gone or have
// left the required status succeed without doing anything.
func (d *Dispatcher) HandleJob(ctx context.Context, job queue.Job) error {
	var err error
	switch job.Kind {
	case queue.KindModerate:
		err = d.svc.Forward(ctx, job.AdID)
	case queue.KindPublish:
		err = d.svc.Publish(ctx, job.AdID)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
	if errors.Is(err, lifecycle.ErrNotFound) || errors.Is(err, lifecycle.ErrStaleState) {
		slog.Info("drop job for unavailable ad", "job_id", job.ID, "kind", job.Kind, "ad_id", job.AdID, "err", err)
		return nil
	}
	return err
}

type inlinePublisher struct {
	svc *Service
}

func (p inlinePublisher) Republish(ctx context.Context, adID int64) (bool, error) {
	return false, p.svc.Publish(ctx, adID)
}
