package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a backend that could not be reached.
var ErrUnavailable = errors.New("cache unavailable")

// TransientError is a backend failure that may succeed on another attempt.
type TransientError struct {
	Op  string
	Err error
}

// Transient tags err as worth retrying. A nil err stays nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

func (e *TransientError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err carries a [TransientError].
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Backoff is a bounded retry policy for transient backend errors.
type Backoff struct {
	Attempts int
	Delay    time.Duration // doubled after every failed attempt
}

// lookupBackoff keeps cache calls well under a second; they sit on the
// interactive path.
var lookupBackoff = Backoff{Attempts: 3, Delay: 25 * time.Millisecond}

// Do runs fn until it succeeds, returns a non-transient error, or the
// attempts are used up. A cancelled ctx ends the wait between attempts.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) || attempt >= b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
