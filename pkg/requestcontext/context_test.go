package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	t.Run("zero values when unset", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, BrowserSessionID(ctx))
		assert.Empty(t, Device(ctx))
		assert.False(t, Now(ctx).IsZero())
	})

	t.Run("round trips injected values", func(t *testing.T) {
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		ctx := WithRequestID(context.Background(), "req-1")
		ctx = WithBrowserSessionID(ctx, "bs-1")
		ctx = WithDevice(ctx, "Firefox on Linux")
		ctx = WithTime(ctx, fixed)

		assert.Equal(t, "req-1", RequestID(ctx))
		assert.Equal(t, "bs-1", BrowserSessionID(ctx))
		assert.Equal(t, "Firefox on Linux", Device(ctx))
		assert.Equal(t, fixed, Now(ctx))
	})
}
