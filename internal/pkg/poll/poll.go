// Package poll waits for a condition with a bounded number of attempts.
package poll

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrTimeout is returned when every attempt was used without success.
var ErrTimeout = errors.New("poll: attempts exhausted")

const (
	DefaultMaxAttempts = 300
	DefaultInterval    = 100 * time.Millisecond
	// DefaultMaxInterval caps a growing wait when no MaxInterval is set.
	DefaultMaxInterval = time.Minute
)

// Clock abstracts waiting so tests can run without sleeping.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Options bound a poll. Zero values take the defaults; a Multiplier below 1
// keeps the interval constant. A growing wait never exceeds MaxInterval, or
// the larger of Interval and DefaultMaxInterval when MaxInterval is unset.
type Options struct {
	MaxAttempts int
	Interval    time.Duration
	Multiplier  float64
	MaxInterval time.Duration
	Clock       Clock
	OnTimeout   func()
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Multiplier < 1 {
		o.Multiplier = 1
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = max(DefaultMaxInterval, o.Interval)
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	return o
}

// Until calls predicate until it reports true, returns an error, the context
// ends or MaxAttempts calls have been made. There is no wait after the last
// attempt.
func Until(ctx context.Context, opts Options, predicate func(ctx context.Context) (bool, error)) error {
	opts = opts.withDefaults()

	wait := opts.Interval
	for attempt := 1; ; attempt++ {
		done, err := predicate(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt >= opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-opts.Clock.After(wait):
		}

		wait = nextWait(wait, opts.Multiplier, opts.MaxInterval)
	}

	if opts.OnTimeout != nil {
		opts.OnTimeout()
	}
	return ErrTimeout
}

// nextWait grows wait by multiplier without overflowing Duration.
func nextWait(wait time.Duration, multiplier float64, limit time.Duration) time.Duration {
	next := float64(wait) * multiplier
	if next >= float64(limit) || next >= math.MaxInt64 {
		return limit
	}
	return time.Duration(next)
}
