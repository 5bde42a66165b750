package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
)

func countsAgainstBreaker(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// A payload rejected by the server says nothing about its health.
	if errors.Is(err, nats.ErrMaxPayload) || errors.Is(err, nats.ErrBadSubject) {
		return false
	}
	return true
}
