package backoff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/splitkit/splitkit/pkg/backoff"
)

func TestExponential_Delay(t *testing.T) {
	t.Parallel()

	t.Run("grows by multiplier", func(t *testing.T) {
		t.Parallel()

		b := backoff.Exponential{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Multiplier:      2,
			JitterFactor:    0, // deterministic
		}

		assert.Equal(t, 100*time.Millisecond, b.Delay(0))
		assert.Equal(t, 200*time.Millisecond, b.Delay(1))
		assert.Equal(t, 400*time.Millisecond, b.Delay(2))
		assert.Equal(t, 800*time.Millisecond, b.Delay(3))
	})

	t.Run("caps at max interval", func(t *testing.T) {
		t.Parallel()

		b := backoff.Exponential{
			InitialInterval: time.Second,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			JitterFactor:    0,
		}

		assert.Equal(t, 5*time.Second, b.Delay(10))
		assert.Equal(t, 5*time.Second, b.Delay(100))
	})

	t.Run("zero value uses defaults", func(t *testing.T) {
		t.Parallel()

		var b backoff.Exponential

		d := b.Delay(0)
		// 500ms +/- 10% jitter
		assert.GreaterOrEqual(t, d, 450*time.Millisecond)
		assert.LessOrEqual(t, d, 550*time.Millisecond)

		assert.LessOrEqual(t, b.Delay(1000), 30*time.Second)
	})

	t.Run("negative attempt treated as zero", func(t *testing.T) {
		t.Parallel()

		b := backoff.Exponential{
			InitialInterval: time.Second,
			MaxInterval:     time.Minute,
			Multiplier:      2,
			JitterFactor:    0,
		}

		assert.Equal(t, time.Second, b.Delay(-5))
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		t.Parallel()

		b := backoff.Exponential{
			InitialInterval: time.Second,
			MaxInterval:     time.Minute,
			Multiplier:      2,
			JitterFactor:    0.1,
		}

		for range 100 {
			d := b.Delay(2) // nominal 4s
			assert.GreaterOrEqual(t, d, 3600*time.Millisecond)
			assert.LessOrEqual(t, d, 4400*time.Millisecond)
		}
	})
}
