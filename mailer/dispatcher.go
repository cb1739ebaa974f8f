package mailer

import (
	"sync"

	"go.uber.org/zap"
)

// Dispatcher delivers mail on a background worker. Enqueue never blocks
// and delivery failures are logged, never surfaced to the caller: a lost
// notification must not fail the operation that produced it.
type Dispatcher struct {
	sender Sender
	logger *zap.Logger
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a single delivery worker over a bounded queue.
func NewDispatcher(sender Sender, logger *zap.Logger, buffer int) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		sender: sender,
		logger: logger,
		queue:  make(chan Message, buffer),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Enqueue offers a message to the queue. It reports false when the
// message was dropped, either because the queue is full or the
// dispatcher is already closed.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("mail dispatcher closed, dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("mail queue full, dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return false
	}
}

// Close stops accepting messages and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.sender.Send(msg); err != nil {
			d.logger.Error("failed to send email",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}
}
