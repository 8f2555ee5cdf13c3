package defaults

import "time"

// Kubernetes API timeouts.
const (
	// SubmitTimeout bounds a single Job create request.
	SubmitTimeout = 30 * time.Second
)

// Retry timing for resubmission after a transport failure.
const (
	// RetryInitialDelay is the wait before the second attempt.
	RetryInitialDelay = 1 * time.Second

	// RetryFactor multiplies the delay after each attempt.
	RetryFactor = 2.0

	// RetryJitter adds up to this fraction of random delay to each wait.
	RetryJitter = 0.1
)
