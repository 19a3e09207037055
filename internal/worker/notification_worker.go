package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/service"
)

const deliveryTimeout = 10 * time.Second

// ErrQueueFull is returned by Publish when the delivery buffer is saturated.
var ErrQueueFull = errors.New("notification queue full")

// NotificationWorker moves workflow event delivery off the request path.
// Publish only enqueues; Run hands each event, in order, to the subscribed
// notifiers on a single goroutine.
type NotificationWorker struct {
	sink   events.Dispatcher
	queue  chan events.Event
	logger *zap.Logger
}

var _ events.Dispatcher = (*NotificationWorker)(nil)

// NewNotificationWorker builds a worker buffering up to size events.
func NewNotificationWorker(size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		sink:   events.NewInMemoryDispatcher(),
		queue:  make(chan events.Event, size),
		logger: logger,
	}
}

// Register subscribes the logging/webhook notifier and, when a publisher is
// supplied, the AMQP forwarder.
func (w *NotificationWorker) Register(notificationService *service.NotificationService, publisher *events.AMQPPublisher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if publisher == nil {
		return
	}
	events.SubscribeAll(w, publisher.Handle)
	w.logger.Info("event forwarding to amqp enabled")
}

// Publish enqueues event without blocking.
func (w *NotificationWorker) Publish(_ context.Context, event events.Event) error {
	select {
	case w.queue <- events.Stamp(event):
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers a handler that Run will invoke.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.sink.Subscribe(eventType, handler)
}

// Run delivers queued events until ctx is done, then flushes what is still
// buffered and returns.
func (w *NotificationWorker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.flush()
			w.logger.Info("notification worker stopped")
			return nil
		case event := <-w.queue:
			w.deliver(event)
		}
	}
}

func (w *NotificationWorker) flush() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := w.sink.Publish(ctx, event); err != nil {
		w.logger.Warn("event delivery failed",
			zap.String("event", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err))
	}
}
