package submit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// quotaMessage marks a Forbidden response produced by ResourceQuota admission.
const quotaMessage = "exceeded quota"

// classify maps a create error to an Outcome. ctx is the request context; its
// state tells a timeout from a caller cancellation when the error itself does not.
func classify(ctx context.Context, err error) Outcome {
	var status apierrors.APIStatus
	if errors.As(err, &status) {
		return classifyStatus(err, status)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return TransportFailure(DetailTimeout)
	case errors.Is(err, context.Canceled):
		return TransportFailure(DetailCancelled)
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return TransportFailure(DetailTimeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return TransportFailure(DetailCancelled)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportFailure(DetailTimeout)
	}

	return TransportFailure(err.Error())
}

func classifyStatus(err error, status apierrors.APIStatus) Outcome {
	s := status.Status()
	msg := s.Message
	if msg == "" {
		msg = err.Error()
	}

	switch {
	case apierrors.IsAlreadyExists(err):
		return AlreadyExists()
	case apierrors.IsUnauthorized(err):
		return TransportFailure(fmt.Sprintf("unauthorized: %s", msg))
	case apierrors.IsForbidden(err):
		if strings.Contains(msg, quotaMessage) {
			return Rejected(msg)
		}
		return TransportFailure(fmt.Sprintf("forbidden: %s", msg))
	case apierrors.IsTimeout(err), apierrors.IsServerTimeout(err):
		return TransportFailure(DetailTimeout)
	case apierrors.IsTooManyRequests(err),
		apierrors.IsServiceUnavailable(err),
		apierrors.IsInternalError(err),
		apierrors.IsUnexpectedServerError(err):
		return TransportFailure(msg)
	}

	code := int(s.Code)
	switch {
	case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
		return Rejected(msg)
	default:
		return TransportFailure(msg)
	}
}
