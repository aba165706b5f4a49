// Package queue delivers ad jobs (moderation forwards, channel publishes)
// through a Redis stream so that telegram hiccups are retried instead of lost.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Job kinds handled by the bot workers.
const (
	KindModerate = "moderate"
	KindPublish  = "publish"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Job is one delivery about an ad together with its progress.
type Job struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	AdID      int64     `json:"adId"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Handler performs one job. An error schedules a retry until the attempt
// budget is spent, after which the job moves to the dead-letter stream.
type Handler func(context.Context, Job) error

type OutboxConfig struct {
	Stream      string
	Group       string
	Consumer    string
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
	Block       time.Duration
	ClaimIdle   time.Duration
	RecordTTL   time.Duration
	MaxLen      int64
}

// Outbox is a consumer-group backed job stream. Job records live next to
// the stream as JSON strings that expire after RecordTTL.
type Outbox struct {
	rdb *redis.Client
	cfg OutboxConfig
	now func() time.Time
}

// NewOutbox builds an outbox on a shared client. Zero config values get
// defaults.
func NewOutbox(rdb *redis.Client, cfg OutboxConfig) (*Outbox, error) {
	if rdb == nil {
		return nil, errors.New("queue: redis client required")
	}
	cfg.Stream = strings.TrimSpace(cfg.Stream)
	if cfg.Stream == "" {
		cfg.Stream = "adsbot:jobs"
	}
	cfg.Group = strings.TrimSpace(cfg.Group)
	if cfg.Group == "" {
		cfg.Group = "adsbot"
	}
	cfg.Consumer = strings.TrimSpace(cfg.Consumer)
	if cfg.Consumer == "" {
		cfg.Consumer = "bot-" + uuid.NewString()[:8]
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}
	if cfg.MaxBackoff < cfg.Backoff {
		cfg.MaxBackoff = max(time.Minute, cfg.Backoff)
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.ClaimIdle <= 0 {
		cfg.ClaimIdle = 30 * time.Second
	}
	if cfg.RecordTTL <= 0 {
		cfg.RecordTTL = 24 * time.Hour
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = 10000
	}
	return &Outbox{rdb: rdb, cfg: cfg, now: time.Now}, nil
}

// DeadLetter names the stream that receives jobs which ran out of attempts.
func (o *Outbox) DeadLetter() string {
	return o.cfg.Stream + ":dead"
}

// Enqueue queues kind for adID. While an earlier job for the same ad and
// kind is still open, that job is returned and nothing new is queued.
func (o *Outbox) Enqueue(ctx context.Context, kind string, adID int64) (Job, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Job{}, errors.New("queue: job kind required")
	}
	if adID <= 0 {
		return Job{}, errors.New("queue: ad id required")
	}
	now := o.now().UTC()
	job := Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		AdID:      adID,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	claim := o.claimKey(kind, adID)
	fresh, err := o.rdb.SetNX(ctx, claim, job.ID, o.cfg.RecordTTL).Result()
	if err != nil {
		return Job{}, fmt.Errorf("claim %s job for ad %d: %w", kind, adID, err)
	}
	if !fresh {
		if open, ok := o.openJob(ctx, claim); ok {
			return open, nil
		}
		if err := o.rdb.Set(ctx, claim, job.ID, o.cfg.RecordTTL).Err(); err != nil {
			return Job{}, fmt.Errorf("claim %s job for ad %d: %w", kind, adID, err)
		}
	}

	record, err := json.Marshal(job)
	if err != nil {
		return Job{}, err
	}
	pipe := o.rdb.TxPipeline()
	pipe.Set(ctx, o.jobKey(job.ID), record, o.cfg.RecordTTL)
	pipe.XAdd(ctx, o.entry(job))
	if _, err := pipe.Exec(ctx); err != nil {
		_ = o.rdb.Del(ctx, claim).Err()
		return Job{}, fmt.Errorf("append %s job for ad %d: %w", kind, adID, err)
	}
	return job, nil
}

func (o *Outbox) openJob(ctx context.Context, claim string) (Job, bool) {
	id, err := o.rdb.Get(ctx, claim).Result()
	if err != nil {
		return Job{}, false
	}
	job, ok, err := o.GetJob(ctx, id)
	if err != nil || !ok {
		return Job{}, false
	}
	return job, job.Status == StatusQueued || job.Status == StatusProcessing
}

// GetJob loads the job record, reporting false once it has expired.
func (o *Outbox) GetJob(ctx context.Context, id string) (Job, bool, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, false, nil
	}
	raw, err := o.rdb.Get(ctx, o.jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, err
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return Job{}, false, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, true, nil
}

// Run consumes the stream with workers goroutines until ctx is done.
func (o *Outbox) Run(ctx context.Context, workers int, handle Handler) error {
	if err := o.ensureGroup(ctx); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < max(workers, 1); i++ {
		consumer := o.cfg.Consumer + "-" + strconv.Itoa(i)
		g.Go(func() error {
			o.work(ctx, consumer, handle)
			return nil
		})
	}
	slog.Info("outbox consuming", "stream", o.cfg.Stream, "group", o.cfg.Group, "workers", max(workers, 1))
	return g.Wait()
}

func (o *Outbox) ensureGroup(ctx context.Context) error {
	// "0" so jobs queued before the first consumer came up are delivered
	err := o.rdb.XGroupCreateMkStream(ctx, o.cfg.Stream, o.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", o.cfg.Group, err)
	}
	return nil
}

func (o *Outbox) work(ctx context.Context, consumer string, handle Handler) {
	for ctx.Err() == nil {
		msgs, err := o.next(ctx, consumer)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("outbox read failed", "consumer", consumer, "err", err)
			wait(ctx, o.cfg.Backoff)
			continue
		}
		for _, msg := range msgs {
			o.process(ctx, msg, handle)
		}
	}
}

// next prefers entries abandoned by a crashed consumer over new ones.
func (o *Outbox) next(ctx context.Context, consumer string) ([]redis.XMessage, error) {
	stale, _, err := o.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   o.cfg.Stream,
		Group:    o.cfg.Group,
		Consumer: consumer,
		MinIdle:  o.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    10,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if len(stale) > 0 {
		return stale, nil
	}
	streams, err := o.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    o.cfg.Group,
		Consumer: consumer,
		Streams:  []string{o.cfg.Stream, ">"},
		Count:    10,
		Block:    o.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var msgs []redis.XMessage
	for _, s := range streams {
		msgs = append(msgs, s.Messages...)
	}
	return msgs, nil
}

func (o *Outbox) process(ctx context.Context, msg redis.XMessage, handle Handler) {
	id, _ := msg.Values["job"].(string)
	job, ok, err := o.GetJob(ctx, id)
	if err != nil {
		// left pending; another consumer reclaims it after ClaimIdle
		slog.Warn("outbox job load failed", "entry", msg.ID, "job_id", id, "err", err)
		return
	}
	if !ok {
		slog.Warn("outbox entry without job record", "entry", msg.ID, "job_id", id)
		o.drop(ctx, msg.ID)
		return
	}

	job.Attempts++
	job.Status = StatusProcessing
	job.UpdatedAt = o.now().UTC()
	if err := o.save(ctx, o.rdb, job); err != nil {
		slog.Warn("outbox job save failed", "job_id", job.ID, "err", err)
		return
	}

	herr := handle(ctx, job)
	job.UpdatedAt = o.now().UTC()
	switch {
	case herr == nil:
		job.Status = StatusDone
		job.LastError = ""
		o.finish(ctx, msg.ID, job)
	case job.Attempts >= o.cfg.MaxAttempts:
		job.Status = StatusFailed
		job.LastError = herr.Error()
		slog.Error("outbox job failed", "job_id", job.ID, "kind", job.Kind, "ad_id", job.AdID, "attempts", job.Attempts, "err", herr)
		o.finish(ctx, msg.ID, job)
	default:
		job.Status = StatusQueued
		job.LastError = herr.Error()
		delay := o.backoff(job.Attempts)
		slog.Warn("outbox job retry", "job_id", job.ID, "kind", job.Kind, "ad_id", job.AdID, "attempts", job.Attempts, "in", delay, "err", herr)
		if !wait(ctx, delay) {
			return
		}
		if err := o.retry(ctx, msg.ID, job); err != nil {
			slog.Warn("outbox requeue failed", "job_id", job.ID, "err", err)
		}
	}
}

// finish stores the final state, removes the entry and releases the ad
// claim. Failed jobs are copied to the dead-letter stream.
func (o *Outbox) finish(ctx context.Context, entryID string, job Job) {
	pipe := o.rdb.TxPipeline()
	if err := o.save(ctx, pipe, job); err != nil {
		slog.Warn("outbox job save failed", "job_id", job.ID, "err", err)
		return
	}
	pipe.XAck(ctx, o.cfg.Stream, o.cfg.Group, entryID)
	pipe.XDel(ctx, o.cfg.Stream, entryID)
	pipe.Del(ctx, o.claimKey(job.Kind, job.AdID))
	if job.Status == StatusFailed {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: o.DeadLetter(),
			MaxLen: o.cfg.MaxLen,
			Approx: true,
			Values: map[string]any{"job": job.ID, "kind": job.Kind, "ad": job.AdID, "error": job.LastError},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("outbox finish failed", "job_id", job.ID, "err", err)
	}
}

// retry appends a fresh entry and acks the old one in one transaction, so
// a failure leaves the old entry pending instead of losing the job.
func (o *Outbox) retry(ctx context.Context, entryID string, job Job) error {
	pipe := o.rdb.TxPipeline()
	if err := o.save(ctx, pipe, job); err != nil {
		return err
	}
	pipe.XAdd(ctx, o.entry(job))
	pipe.XAck(ctx, o.cfg.Stream, o.cfg.Group, entryID)
	pipe.XDel(ctx, o.cfg.Stream, entryID)
	_, err := pipe.Exec(ctx)
	return err
}

func (o *Outbox) drop(ctx context.Context, entryID string) {
	pipe := o.rdb.TxPipeline()
	pipe.XAck(ctx, o.cfg.Stream, o.cfg.Group, entryID)
	pipe.XDel(ctx, o.cfg.Stream, entryID)
	_, _ = pipe.Exec(ctx)
}

func (o *Outbox) save(ctx context.Context, c redis.Cmdable, job Job) error {
	record, err := json.Marshal(job)
	if err != nil {
		return err
	}
	// inside a pipeline Err stays nil until Exec
	return c.Set(ctx, o.jobKey(job.ID), record, o.cfg.RecordTTL).Err()
}

func (o *Outbox) backoff(attempt int) time.Duration {
	d := o.cfg.Backoff << (attempt - 1)
	if d <= 0 || d > o.cfg.MaxBackoff {
		return o.cfg.MaxBackoff
	}
	return d
}

func (o *Outbox) entry(job Job) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: o.cfg.Stream,
		MaxLen: o.cfg.MaxLen,
		Approx: true,
		Values: map[string]any{"job": job.ID, "kind": job.Kind, "ad": job.AdID},
	}
}

func (o *Outbox) jobKey(id string) string {
	return o.cfg.Stream + ":job:" + id
}

func (o *Outbox) claimKey(kind string, adID int64) string {
	return fmt.Sprintf("%s:open:%s:%d", o.cfg.Stream, kind, adID)
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
