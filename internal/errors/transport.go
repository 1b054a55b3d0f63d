package errors

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// MapTransportError maps failures from an HTTP round trip to AppError instances.
// It handles the common transport failure shapes:
// - context.DeadlineExceeded or a net.Error timeout → Timeout
// - context.Canceled → Canceled
// - any other *url.Error / net.Error → Network
//
// Errors that are already AppErrors are returned unchanged.
func MapTransportError(err error, op string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrapf(err, ErrCodeTimeout, "%s timed out", op)
	}
	if errors.Is(err, context.Canceled) {
		return Wrapf(err, ErrCodeCanceled, "%s canceled", op)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrapf(err, ErrCodeTimeout, "%s timed out", op)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return Wrapf(err, ErrCodeNetwork, "%s failed", op)
	}

	return Wrapf(err, ErrCodeNetwork, "%s failed", op)
}
