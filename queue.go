package dualog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// appendQueue serializes appends of formatted lines to one Appender.
//
// Producers add lines under mu and return at once. The first producer that
// finds no drain running starts one; the drain repeatedly takes the whole
// queue, writes it with a single Append and re-checks the queue, until it
// observes the queue empty. draining is only changed under mu, so at most
// one Append is in flight and batches are written in submission order.
type appendQueue struct {
	mu       sync.Mutex
	lines    []string
	draining bool
	idle     chan struct{} // Closed when the running drain finds the queue empty.

	appender Appender
	onError  func(error)
	metrics  metrics

	submitted atomic.Uint64
	cycles    atomic.Uint64
	failures  atomic.Uint64
	dropped   atomic.Uint64
}

func newAppendQueue(a Appender, onError func(error), m metrics) *appendQueue {
	return &appendQueue{
		appender: a,
		onError:  onError,
		metrics:  m,
	}
}

// submit enqueues line and starts a drain if none is running.
func (q *appendQueue) submit(line string) {
	q.submitted.Inc()
	q.metrics.SubmittedLines.Inc()

	q.mu.Lock()
	q.lines = append(q.lines, line)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.idle = make(chan struct{})
	q.mu.Unlock()

	go q.drain()
}

// drain writes snapshots of the queue until it is observed empty.
// Calling it on an idle, empty queue is a no-op.
func (q *appendQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.lines) == 0 {
			q.draining = false
			if q.idle != nil {
				close(q.idle)
				q.idle = nil
			}
			q.mu.Unlock()
			return
		}
		batch := q.lines
		q.lines = nil
		q.mu.Unlock()

		q.write(batch)
	}
}

// write issues one Append for batch. Failed batches are dropped.
func (q *appendQueue) write(batch []string) {
	n := 0
	for _, line := range batch {
		n += len(line) + 1
	}
	var b strings.Builder
	b.Grow(n)
	for _, line := range batch {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	q.cycles.Inc()
	q.metrics.DrainCycles.Inc()
	q.metrics.BatchSize.Observe(float64(len(batch)))

	if err := q.append([]byte(b.String())); err != nil {
		q.failures.Inc()
		q.dropped.Add(uint64(len(batch)))
		q.metrics.FailedAppends.Inc()
		q.metrics.DroppedLines.Add(float64(len(batch)))
		q.report(fmt.Errorf("dualog: append %d lines: %w", len(batch), err))
		return
	}
	q.metrics.WrittenBytes.Add(float64(b.Len()))
}

func (q *appendQueue) append(p []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("appender panic: %v", r)
		}
	}()
	return q.appender.Append(p)
}

func (q *appendQueue) report(err error) {
	defer func() { _ = recover() }()
	if q.onError != nil {
		q.onError(err)
	}
}

// flush blocks until the running drain, if any, finds the queue empty.
func (q *appendQueue) flush(ctx context.Context) error {
	q.mu.Lock()
	if !q.draining {
		q.mu.Unlock()
		return nil
	}
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *appendQueue) stats() Stats {
	return Stats{
		Submitted: q.submitted.Load(),
		Cycles:    q.cycles.Load(),
		Failures:  q.failures.Load(),
		Dropped:   q.dropped.Load(),
	}
}
