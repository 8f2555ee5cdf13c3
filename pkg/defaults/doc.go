// Package defaults provides centralized configuration constants for jobctl.
//
// This package defines timeout values, retry parameters, and the default job
// parameters used when the command line leaves them unset. Centralizing these
// values keeps the CLI, the builder, and the submission client consistent.
//
// # Timeout Categories
//
//   - Kubernetes timeouts: For the Job create call
//   - Retry timing: For caller-driven resubmission after transport failures
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/jobctl/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SubmitTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Job create: 30s per request, surfaced as a transport failure when exceeded
//   - Retry: 1s initial delay, doubled per attempt
package defaults
