package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/api/metrics"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes notifications to a fixed set of workers using
// consistent hashing on the recipient, so mail to one address is delivered
// in the order it was queued.
type Dispatcher struct {
	workers []chan ports.Notification
	service ports.NotificationService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		service: service,
		log:     log,
		cancel:  func() {},
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx stops the workers
// at once and discards whatever is still queued; use Shutdown to drain.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown stops accepting notifications and lets the workers deliver what
// is already queued. If ctx expires first the remaining items are
// discarded and ctx's error is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// Notify queues n on the worker owning its recipient. It never blocks the
// caller: when that worker's buffer is full, or the dispatcher is shutting
// down, the notification is dropped and logged.
func (d *Dispatcher) Notify(n ports.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.shardIndex(n.To)
	if d.closed {
		d.drop(n, idx, "dispatcher closed, dropping")
		return
	}
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(n, idx, "notification queue full, dropping")
	}
}

func (d *Dispatcher) drop(n ports.Notification, idx int, msg string) {
	metrics.NotificationsTotal.WithLabelValues(n.Kind, "dropped").Inc()
	d.log.Warn().
		Str("kind", n.Kind).
		Int("worker_id", idx).
		Msg(msg)
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.discard(id, ch)
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.service.Deliver(ctx, n); err != nil {
				metrics.NotificationsTotal.WithLabelValues(n.Kind, "failed").Inc()
				d.log.Error().Err(err).
					Str("kind", n.Kind).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues(n.Kind, "sent").Inc()
		}
	}
}

// discard empties ch without delivering and logs how much was lost.
func (d *Dispatcher) discard(id int, ch <-chan ports.Notification) {
	discarded := 0
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				d.logDiscarded(id, discarded)
				return
			}
			discarded++
			metrics.NotificationsTotal.WithLabelValues(n.Kind, "dropped").Inc()
		default:
			d.logDiscarded(id, discarded)
			return
		}
	}
}

func (d *Dispatcher) logDiscarded(id, n int) {
	metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
	if n == 0 {
		return
	}
	d.log.Error().
		Int("worker_id", id).
		Int("discarded", n).
		Msg("notifications discarded on stop")
}
