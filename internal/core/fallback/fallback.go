// Package fallback runs an ordered list of strategies under a retry policy.
// It backs the transcription retry loop, the chunk insert ladder, and the
// embedding-to-keyword search degrade, which all share the same shape: try
// something, classify the failure, then retry, move on, or give up
package fallback

import (
	"context"
	"time"
)

// Class tells Run what to do with a failed attempt
type Class int

const (
	// ClassAbort stops everything and surfaces the error
	ClassAbort Class = iota

	// ClassRetry retries the same strategy, up to Policy.Attempts
	ClassRetry

	// ClassNext abandons the strategy and moves to the next one
	ClassNext
)

// Classifier maps an error to a Class
type Classifier func(error) Class

// Always returns a classifier that assigns every error the same class
func Always(c Class) Classifier {
	return func(error) Class { return c }
}

// Policy governs one Run call
type Policy struct {
	// Attempts is the max tries per strategy; values below 1 mean 1
	Attempts int

	// Backoff returns the sleep before retry attempt n (1-based). Nil means
	// no sleep
	Backoff func(attempt int) time.Duration

	// Classify decides retry/next/abort; nil aborts on any error
	Classify Classifier
}

// Strategy is one way of producing a T
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Run tries each strategy in order under the policy. It returns the first
// success, the error of the aborting attempt, or the last error when every
// strategy is exhausted
func Run[T any](ctx context.Context, p Policy, strategies ...Strategy[T]) (T, error) {
	var zero T
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	classify := p.Classify
	if classify == nil {
		classify = Always(ClassAbort)
	}

	var lastErr error
next:
	for _, s := range strategies {
		for attempt := 1; attempt <= attempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			v, err := s.Run(ctx)
			if err == nil {
				return v, nil
			}
			lastErr = err

			switch classify(err) {
			case ClassAbort:
				return zero, err
			case ClassNext:
				continue next
			case ClassRetry:
				if attempt < attempts && p.Backoff != nil {
					if serr := sleep(ctx, p.Backoff(attempt)); serr != nil {
						return zero, serr
					}
				}
			}
		}
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
