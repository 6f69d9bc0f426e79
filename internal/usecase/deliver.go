package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
	"github.com/ajambaliya/gktodaypostpdf/internal/repository"
)

// Deliverer sends a rendered file through a Sender, retrying timeouts.
type Deliverer struct {
	sender      repository.Sender
	maxAttempts int
	wait        time.Duration
	log         logger.Logger
}

func NewDeliverer(sender repository.Sender, maxAttempts int, wait time.Duration, log logger.Logger) *Deliverer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Deliverer{sender: sender, maxAttempts: maxAttempts, wait: wait, log: log}
}

// Deliver makes up to maxAttempts sends. Only timeouts are retried, after a
// fixed wait; any other error stops immediately.
func (d *Deliverer) Deliver(ctx context.Context, name string, data []byte) error {
	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		err := d.sender.SendDocument(ctx, name, data)
		if err == nil {
			return struct{}{}, nil
		}
		if !IsTimeout(err) {
			d.log.Error("error sending document",
				logger.Int("attempt", attempt), logger.Error(err))
			return struct{}{}, backoff.Permanent(err)
		}
		d.log.Warn("timeout sending document",
			logger.Int("attempt", attempt), logger.Error(err))
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(d.wait)),
		backoff.WithMaxTries(uint(d.maxAttempts)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s after %d attempt(s): %w", domain.ErrDelivery, name, attempt, err)
	}

	d.log.Info("document delivered", logger.String("file", name), logger.Int("attempts", attempt))
	return nil
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, domain.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
