package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler consumes an event. Handlers run on the dispatcher goroutine and
// should hand off long work to their own workers.
type Handler func(ctx context.Context, evt Event)

// Dispatcher is a small in-process pub/sub bus. Publishing never blocks the
// caller; events are buffered and dropped with a warning when the buffer is
// full.
type Dispatcher struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[EventType][]Handler

	queue chan Event
	done  chan struct{}
	once  sync.Once
}

func NewDispatcher(logger *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[EventType][]Handler),
		queue:    make(chan Event, buffer),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for an event type. Must be called before Run.
func (d *Dispatcher) Subscribe(t EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = append(d.handlers[t], h)
}

// Publish enqueues an event, dropping it when the bus is saturated.
func (d *Dispatcher) Publish(evt Event) {
	select {
	case d.queue <- evt:
	default:
		d.logger.Warn("event bus full, dropping event", zap.String("type", string(evt.Type)))
	}
}

// Run drains the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-d.queue:
			d.dispatch(ctx, evt)
		}
	}
}

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) dispatch(ctx context.Context, evt Event) {
	d.mu.RLock()
	handlers := d.handlers[evt.Type]
	d.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("event handler panicked",
						zap.String("type", string(evt.Type)),
						zap.Any("panic", r))
				}
			}()
			h(ctx, evt)
		}()
	}
}
