package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
)

func TestDeliverer_Deliver(t *testing.T) {
	ctx := context.Background()
	timeout := fmt.Errorf("send: %w", domain.ErrTimeout)

	t.Run("first attempt succeeds", func(t *testing.T) {
		sender := &fakeSender{}
		d := NewDeliverer(sender, 3, time.Millisecond, logger.NewNop())

		require.NoError(t, d.Deliver(ctx, "x.pdf", []byte("pdf")))
		assert.Equal(t, 1, sender.calls)
	})

	t.Run("timeouts are retried", func(t *testing.T) {
		sender := &fakeSender{errs: []error{timeout, timeout}}
		d := NewDeliverer(sender, 3, time.Millisecond, logger.NewNop())

		require.NoError(t, d.Deliver(ctx, "x.pdf", []byte("pdf")))
		assert.Equal(t, 3, sender.calls)
	})

	t.Run("exhausted timeouts fail", func(t *testing.T) {
		sender := &fakeSender{errs: []error{timeout, timeout, timeout, timeout}}
		d := NewDeliverer(sender, 3, time.Millisecond, logger.NewNop())

		err := d.Deliver(ctx, "x.pdf", []byte("pdf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDelivery)
		assert.Equal(t, 3, sender.calls)
	})

	t.Run("other errors abort immediately", func(t *testing.T) {
		sender := &fakeSender{errs: []error{errors.New("Forbidden: bot is not a member of the channel")}}
		d := NewDeliverer(sender, 3, time.Millisecond, logger.NewNop())

		err := d.Deliver(ctx, "x.pdf", []byte("pdf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDelivery)
		assert.Equal(t, 1, sender.calls)
	})
}

type netTimeout struct{}

func (netTimeout) Error() string   { return "i/o timeout" }
func (netTimeout) Timeout() bool   { return true }
func (netTimeout) Temporary() bool { return true }

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(domain.ErrTimeout))
	assert.True(t, IsTimeout(fmt.Errorf("post: %w", context.DeadlineExceeded)))
	assert.True(t, IsTimeout(fmt.Errorf("post: %w", netTimeout{})))
	assert.False(t, IsTimeout(errors.New("bad request")))
}
