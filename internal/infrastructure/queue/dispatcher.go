package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/leaderboard-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrDispatcherStopped is returned for work submitted after the dispatcher
// context was cancelled.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(ctx context.Context) error
	done chan error // buffered(1): the worker never blocks on an abandoned job
}

// Dispatcher routes claims to a fixed set of workers using consistent hashing
// on the user id, so claims for one user run one at a time and in arrival order.
type Dispatcher struct {
	workers []chan job
	log     zerolog.Logger

	stopped chan struct{}
	once    sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.once.Do(func() { close(d.stopped) })
	}()
}

// Do runs fn on the worker owning key and waits for it to finish. It returns
// early with ctx.Err() if ctx ends first; fn may still run to completion.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}
	idx := d.shardIndex(key)

	select {
	case <-d.stopped:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	case d.workers[idx] <- j:
		metrics.DispatcherQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrDispatcherStopped
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.DispatcherQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if j.ctx.Err() != nil {
				j.done <- j.ctx.Err()
				continue
			}
			err := j.fn(j.ctx)
			if err != nil {
				d.log.Debug().Err(err).
					Str("user_id", j.key).
					Int("worker_id", id).
					Msg("claim failed")
			}
			j.done <- err
		}
	}
}
