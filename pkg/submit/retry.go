package submit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NVIDIA/jobctl/pkg/defaults"
	"github.com/NVIDIA/jobctl/pkg/job"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Backoff controls caller-driven resubmission after transport failures.
type Backoff struct {
	// Attempts is the total number of submissions, including the first. Values
	// below 1 are treated as 1.
	Attempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// Factor multiplies the delay after each attempt.
	Factor float64

	// Jitter adds up to Jitter*delay of random wait.
	Jitter float64
}

// DefaultBackoff returns the default backoff with the given attempt count.
func DefaultBackoff(attempts int) Backoff {
	return Backoff{
		Attempts:     attempts,
		InitialDelay: defaults.RetryInitialDelay,
		Factor:       defaults.RetryFactor,
		Jitter:       defaults.RetryJitter,
	}
}

// SubmitWithRetry submits d and resubmits while the outcome is a transport
// failure, waiting with exponential backoff between attempts. It returns the
// last outcome. A retry after a failure that did reach the server reports
// AlreadyExists, which callers treat as success.
func SubmitWithRetry(ctx context.Context, s Submitter, d *job.Descriptor, namespace string, b Backoff) Outcome {
	steps := b.Attempts
	if steps < 1 {
		steps = 1
	}

	var (
		last     Outcome
		attempts int
	)
	err := wait.ExponentialBackoffWithContext(ctx, wait.Backoff{
		Duration: b.InitialDelay,
		Factor:   b.Factor,
		Jitter:   b.Jitter,
		Steps:    steps,
	}, func(ctx context.Context) (bool, error) {
		attempts++
		last = s.Submit(ctx, d, namespace)
		if !last.Retryable() {
			return true, nil
		}
		if attempts < steps {
			slog.Warn("job submission failed, retrying",
				slog.String("name", d.Name()),
				slog.Int("attempt", attempts),
				slog.Int("max_attempts", steps),
				slog.String("detail", last.Reason),
			)
		}
		return false, nil
	})
	submissionAttempts.Observe(float64(attempts))

	// The context ended before the first attempt or during a backoff wait.
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return TransportFailure(DetailCancelled)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return TransportFailure(DetailTimeout)
		}
	}
	return last
}
