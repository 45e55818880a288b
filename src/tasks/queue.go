// Package tasks runs background jobs in-process with bounded retries.
package tasks

import (
	"context"
	"log"
	"sync"
	"time"
)

const maxRetries = 3

// TaskFunc is one unit of background work.
type TaskFunc func(ctx context.Context) error

type job struct {
	name    string
	run     TaskFunc
	attempt int
}

// Queue dispatches jobs to a fixed worker pool. Failed jobs are retried up
// to maxRetries times with exponential backoff before being dropped.
type Queue struct {
	jobs        chan job
	backoffBase time.Duration
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewQueue(workers int, backoffBase time.Duration) *Queue {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		jobs:        make(chan job, 256),
		backoffBase: backoffBase,
		ctx:         ctx,
		cancel:      cancel,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue submits a job. A full queue drops the job with a log line rather
// than blocking request handlers.
func (q *Queue) Enqueue(name string, run TaskFunc) {
	select {
	case q.jobs <- job{name: name, run: run}:
	default:
		log.Printf("ERROR: Task queue full, dropping %s", name)
	}
}

// Every runs a job on a fixed interval until the queue shuts down. The first
// run happens after one interval, not immediately.
func (q *Queue) Every(interval time.Duration, name string, run TaskFunc) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-q.ctx.Done():
				return
			case <-ticker.C:
				q.Enqueue(name, run)
			}
		}
	}()
}

// Shutdown stops the tickers and workers after any in-flight job finishes.
// Pending retries scheduled via timers are abandoned.
func (q *Queue) Shutdown() {
	q.cancel()
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case j := <-q.jobs:
			q.execute(j)
		}
	}
}

func (q *Queue) execute(j job) {
	err := j.run(q.ctx)
	if err == nil {
		return
	}
	if j.attempt >= maxRetries {
		log.Printf("ERROR: Task %s failed after %d retries: %v", j.name, maxRetries, err)
		return
	}

	delay := Backoff(q.backoffBase, j.attempt)
	log.Printf("ERROR: Task %s failed (attempt %d), retrying in %s: %v", j.name, j.attempt+1, delay, err)
	retry := job{name: j.name, run: j.run, attempt: j.attempt + 1}
	time.AfterFunc(delay, func() {
		select {
		case <-q.ctx.Done():
		case q.jobs <- retry:
		}
	})
}

// Backoff doubles the base delay per prior attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	return base << uint(attempt)
}
