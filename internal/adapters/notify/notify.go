// Package notify delivers judge-interest notifications off the request path.
//
// Delivery is a side-channel: failures are logged and counted, never
// surfaced to the mutating call that triggered them.
package notify

import (
	"context"
	"sync"

	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"
)

// Default dispatcher configuration constants.
const (
	defaultQueueSize   = 1024
	defaultWorkerCount = 2
)

// Message is one judge-interest notification.
type Message struct {
	EventID   string
	EventName string
	JudgeID   string
}

// Mailer sends a notification. Email rendering and transport are external;
// implementations may log, queue to a broker, or call a provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer implements Mailer by logging the would-be email. The default
// backend when no provider is configured.
type LogMailer struct {
	log logger.Logger
}

// NewLogMailer creates a mailer that records deliveries in the log.
func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the notification and reports success.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info(ctx, "judge interest notification",
		logger.String("eventID", msg.EventID),
		logger.String("eventName", msg.EventName),
		logger.String("judgeID", msg.JudgeID),
	)
	return nil
}

// Dispatcher queues messages and delivers them with a small worker pool.
type Dispatcher struct {
	mailer      Mailer
	queue       chan Message
	queueSize   int
	workerCount int
	log         logger.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize bounds the in-memory message queue.
func WithQueueSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of delivery goroutines.
func WithWorkerCount(count int) Option {
	return func(d *Dispatcher) {
		if count > 0 {
			d.workerCount = count
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher delivering through mailer.
func NewDispatcher(mailer Mailer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		mailer:      mailer,
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = make(chan Message, d.queueSize)
	return d
}

// Start launches the delivery workers. Idempotent.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	if d.log == nil {
		d.log = logger.Get().Named("notify")
	}

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
	d.started = true
}

// Stop drains the queue and waits for workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	close(d.queue)
	d.wg.Wait()
	d.started = false
}

// Enqueue submits a message without blocking. A full queue drops the
// message; the caller never waits on the side-channel.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) bool {
	select {
	case d.queue <- msg:
		metrics.UpdateNotifyQueueSize(len(d.queue))
		return true
	default:
		metrics.RecordNotificationDropped()
		if d.log != nil {
			d.log.Warn(ctx, "notification queue full; dropping message",
				logger.String("eventID", msg.EventID),
				logger.String("judgeID", msg.JudgeID),
			)
		}
		return false
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for msg := range d.queue {
		metrics.UpdateNotifyQueueSize(len(d.queue))
		if err := d.mailer.Send(ctx, msg); err != nil {
			metrics.RecordNotificationDropped()
			d.log.Warn(ctx, "notification delivery failed",
				logger.String("eventID", msg.EventID),
				logger.String("judgeID", msg.JudgeID),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordNotificationDelivered()
	}
}
