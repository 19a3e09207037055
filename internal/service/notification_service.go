package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/config"
	"github.com/spec-kit/farmstore-service/internal/events"
)

const webhookTimeout = 5 * time.Second

// NotificationService logs workflow events and, when configured, posts them to a webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.EventsConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.EventsConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     loggerOrNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	events.SubscribeAll(n.dispatcher, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("workflow event",
		zap.String("event", string(event.Type)),
		zap.String("order_number", event.OrderNumber),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.String("actor_staff_code", event.Actor.StaffCode),
		zap.Any("payload", event.Payload))
	return n.sendWebhook(event)
}

func (n *NotificationService) sendWebhook(event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}

	agent := fiber.Post(url).JSON(event).Timeout(webhookTimeout)
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook %s: %w", event.Type, errs[0])
	}
	if status >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook %s: unexpected status %d", event.Type, status)
	}
	n.logger.Debug("webhook delivered", zap.String("event", string(event.Type)), zap.Int("status", status))
	return nil
}
