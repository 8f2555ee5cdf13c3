/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"errors"

	"github.com/NVIDIA/jobctl/pkg/submit"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitRejected         = 1
	ExitTransportFailure = 2
	ExitInvalidSpec      = 3
)

// exitError carries the process exit code for a failed run. When reported is
// set the status line has already been printed.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns the process exit code.
func (e *exitError) ExitCode() int {
	return e.code
}

// ExitCode maps a command error to the process exit code. Errors that do not
// carry a code happened before any network call and map to ExitInvalidSpec.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitInvalidSpec
}

// outcomeExitCode maps a submission outcome to the process exit code.
func outcomeExitCode(out submit.Outcome) int {
	switch out.Status {
	case submit.StatusCreated, submit.StatusAlreadyExists:
		return ExitOK
	case submit.StatusRejected:
		return ExitRejected
	default:
		return ExitTransportFailure
	}
}

func isReported(err error) bool {
	var ee *exitError
	return errors.As(err, &ee) && ee.reported
}
