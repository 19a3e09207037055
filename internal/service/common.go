package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/farmstore-service/internal/domain"
	"github.com/spec-kit/farmstore-service/internal/events"
	"github.com/spec-kit/farmstore-service/internal/repository"
	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// MediaUploader relays a file to the external media host and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, file *domain.MediaFile, kind domain.MediaKind) (string, error)
}

// validID reports whether id can address a stored record. Malformed ids are
// treated as unknown records rather than bad input.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// notFoundOrMap converts pgx.ErrNoRows into a NotFound for resource and maps
// everything else through MapError.
func notFoundOrMap(err error, resource string, details map[string]any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}

func requireField(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field+" required", map[string]any{"field": field})
	}
	return nil
}

func staffActor(staffCode string) events.Actor {
	return events.Actor{Role: domain.RoleStaff, StaffCode: staffCode}
}

var adminActor = events.Actor{Role: domain.RoleAdmin}

// publishEvent hands the event to the dispatcher. Sink failures are logged and
// never fail the originating operation.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event delivery failed",
			zap.String("event", string(event.Type)),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err))
	}
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate) || apperrors.IsUniqueViolation(err)
}

func isNotFound(err error) bool {
	domainErr := apperrors.ToDomainError(err)
	return domainErr != nil && domainErr.Code == "NOT_FOUND"
}
