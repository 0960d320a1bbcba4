// Package worker implements the buffered worker pool for async draft
// telemetry ingestion. It decouples HTTP request handling from database
// writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/models"
)

// Prometheus metrics
var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_events_ingested_total",
		Help: "Total number of draft events ingested",
	})

	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_events_processed_total",
		Help: "Total number of draft events processed by workers",
	})

	eventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_events_failed_total",
		Help: "Total number of draft events that failed processing",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "draft_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "draft_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	eventsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_events_load_shed_total",
		Help: "Total number of draft events dropped due to load shedding",
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Event     *models.DraftEvent
	Timestamp time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async draft event processing
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing pending batches
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds an event to the queue. A full queue sheds the event rather
// than blocking the caller.
func (p *Pool) Enqueue(event *models.DraftEvent) bool {
	job := Job{
		Event:     event,
		Timestamp: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue event (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		eventsIngested.Inc()
		return true
	case <-p.ctx.Done():
		p.logger.Warn("Worker pool context canceled, dropping event")
		eventsLoadShed.Inc()
		return false
	default:
		eventsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			eventsFailed.Add(float64(len(batch)))
		} else {
			eventsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// processBatch splits a batch by event type and sends each slice to its
// ClickHouse table.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	var actions, results []Job
	for _, job := range batch {
		switch job.Event.Type {
		case models.EventMatchResult:
			results = append(results, job)
		default:
			actions = append(actions, job)
		}
	}

	ctx := context.Background()
	if err := p.insertActions(ctx, actions); err != nil {
		return err
	}
	return p.insertResults(ctx, results)
}

func (p *Pool) insertActions(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO draft_actions (match_id, sequence, side, action, entity, ingested_at)
	`)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		event := job.Event
		err := chBatch.Append(
			event.MatchID,
			uint32(event.Sequence),
			uint8(event.Side),
			string(event.Action),
			event.Entity,
			eventTime(event, job.Timestamp),
		)
		if err != nil {
			p.logger.Warnw("Failed to append action to batch", "error", err, "match", event.MatchID)
			continue
		}
	}

	return chBatch.Send()
}

func (p *Pool) insertResults(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO match_results (match_id, side1_won, ingested_at)
	`)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		event := job.Event
		side1Won := event.Won
		if event.Side == 2 {
			side1Won = !event.Won
		}
		err := chBatch.Append(
			event.MatchID,
			side1Won,
			eventTime(event, job.Timestamp),
		)
		if err != nil {
			p.logger.Warnw("Failed to append result to batch", "error", err, "match", event.MatchID)
			continue
		}
	}

	return chBatch.Send()
}

// minValidUnixTimestamp is 2020-01-01 00:00:00 UTC in seconds. Collector
// timestamps below this are game-relative clocks, not Unix epochs, and
// the ingestion wall-clock time is used instead.
const minValidUnixTimestamp = 1577836800

func eventTime(event *models.DraftEvent, receivedAt time.Time) time.Time {
	if event.Timestamp >= minValidUnixTimestamp {
		sec := int64(event.Timestamp)
		nsec := int64((event.Timestamp - float64(sec)) * 1e9)
		return time.Unix(sec, nsec)
	}
	return receivedAt
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
