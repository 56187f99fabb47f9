// Package worker runs chat jobs on a partitioned pool so each session's
// messages are processed in order.
package worker

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"financial-guardian/api/logger"

	"go.uber.org/zap"
)

// ChatJob is one queued user message for asynchronous processing.
type ChatJob struct {
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
	Query     string `json:"query"`
}

// ProcessFunc executes a chat job. Results are delivered over SSE by the
// implementation, not returned.
type ProcessFunc func(ctx context.Context, job ChatJob)

type Pool struct {
	workers    int
	partitions []chan ChatJob
	process    ProcessFunc
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Metrics
	mu                 sync.RWMutex
	messagesProcessed  uint64
	processingDuration uint64
	bufferFillLevels   []uint64
	messagesDropped    uint64
}

func NewPool(workers int, process ProcessFunc) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	partitions := make([]chan ChatJob, workers)
	for i := range partitions {
		partitions[i] = make(chan ChatJob, 100) // Buffer size of 100 per partition
	}
	return &Pool{
		workers:          workers,
		partitions:       partitions,
		process:          process,
		ctx:              ctx,
		cancelFunc:       cancel,
		bufferFillLevels: make([]uint64, workers),
	}
}

func (p *Pool) Start() {
	logger.Get().Info("Starting worker pool", zap.Int("workers", p.workers))
	for i := range p.partitions {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels the pool context and waits for workers to exit. Partition
// channels are never closed, so a Submit racing Stop drops the job instead
// of panicking.
func (p *Pool) Stop() {
	logger.Get().Info("Stopping worker pool")
	p.cancelFunc()
	p.wg.Wait()
}

// Submit queues a job on the partition owning its session. Jobs submitted
// after Stop are counted as dropped.
func (p *Pool) Submit(job ChatJob) {
	partition := p.partitionFor(job.SessionID)

	if p.ctx.Err() != nil {
		p.dropJob(job)
		return
	}

	select {
	case p.partitions[partition] <- job:
		p.mu.Lock()
		p.bufferFillLevels[partition]++
		p.mu.Unlock()
		logger.Get().Debug("Job submitted to worker pool",
			zap.Int("partition", partition),
			zap.String("session_id", job.SessionID))
	case <-p.ctx.Done():
		p.dropJob(job)
	}
}

func (p *Pool) dropJob(job ChatJob) {
	p.mu.Lock()
	p.messagesDropped++
	p.mu.Unlock()
	logger.Get().Warn("Worker pool is stopped, job not submitted",
		zap.String("session_id", job.SessionID))
}

// partitionFor hashes the session ID so a session's jobs stay ordered.
func (p *Pool) partitionFor(sessionID string) int {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(p.workers))
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	logger.Get().Info("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case job := <-p.partitions[id]:
			p.mu.Lock()
			p.bufferFillLevels[id]--
			p.mu.Unlock()

			startTime := time.Now()

			logger.Get().Debug("Processing chat job",
				zap.Int("worker_id", id),
				zap.String("session_id", job.SessionID))

			p.process(p.ctx, job)

			p.mu.Lock()
			p.messagesProcessed++
			p.processingDuration += uint64(time.Since(startTime).Milliseconds())
			p.mu.Unlock()

		case <-p.ctx.Done():
			logger.Get().Info("Worker stopping due to context cancellation",
				zap.Int("worker_id", id))
			return
		}
	}
}

// MetricsHandler returns the current metrics as JSON.
func (p *Pool) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var avgProcessingTime float64
	if p.messagesProcessed > 0 {
		avgProcessingTime = float64(p.processingDuration) / float64(p.messagesProcessed)
	}

	metrics := map[string]any{
		"messages_processed": p.messagesProcessed,
		"messages_dropped":   p.messagesDropped,
		"avg_processing_ms":  avgProcessingTime,
		"buffer_levels":      p.bufferFillLevels,
		"active_workers":     p.workers,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}
