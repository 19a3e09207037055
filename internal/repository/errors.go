package repository

import (
	"errors"
	"fmt"

	apperrors "github.com/spec-kit/farmstore-service/pkg/util/errorutil"
)

// ErrDuplicate is returned when a write would violate a uniqueness rule.
var ErrDuplicate = errors.New("duplicate record")

// ErrStaleStatus is returned when an order moved after the caller read it.
var ErrStaleStatus = errors.New("order status changed concurrently")

func translate(err error) error {
	if err != nil && apperrors.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
