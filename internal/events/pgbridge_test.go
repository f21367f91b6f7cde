package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuperviseListen_ResetsBackoffAfterListening(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Three failed connects, one that reaches LISTEN and then drops, one more failure.
	script := []bool{false, false, false, true, false}
	attempt := 0
	listen := func(ctx context.Context, ready func()) error {
		if attempt == len(script) {
			cancel()
			return ctx.Err()
		}
		if script[attempt] {
			ready()
		}
		attempt++
		return errors.New("connection reset")
	}

	var delays []time.Duration
	after := func(d time.Duration) <-chan time.Time {
		delays = append(delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}

	superviseListen(ctx, listen, after)

	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second,
		time.Second, 2 * time.Second,
	}, delays)
}

func TestSuperviseListen_CapsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempt := 0
	listen := func(ctx context.Context, _ func()) error {
		attempt++
		if attempt > 8 {
			cancel()
			return ctx.Err()
		}
		return errors.New("refused")
	}

	var last time.Duration
	after := func(d time.Duration) <-chan time.Time {
		last = d
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}

	superviseListen(ctx, listen, after)
	assert.Equal(t, maxReconnectDelay, last)
}
