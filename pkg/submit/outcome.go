package submit

import (
	"fmt"

	"k8s.io/apimachinery/pkg/types"
)

// Status is the kind of result of a submission.
type Status string

const (
	StatusCreated          Status = "Created"
	StatusAlreadyExists    Status = "AlreadyExists"
	StatusRejected         Status = "Rejected"
	StatusTransportFailure Status = "TransportFailure"
)

// Transport failure details with a fixed meaning.
const (
	DetailTimeout   = "timeout"
	DetailCancelled = "cancelled"
)

// Outcome is the classified result of one submission.
type Outcome struct {
	Status Status

	// RemoteID is the name of the created Job. Set for StatusCreated.
	RemoteID string

	// UID is the server-assigned UID of the created Job, when known.
	UID types.UID

	// Reason carries the rejection reason or the transport failure detail.
	Reason string
}

// Created returns a StatusCreated outcome.
func Created(remoteID string, uid types.UID) Outcome {
	return Outcome{Status: StatusCreated, RemoteID: remoteID, UID: uid}
}

// AlreadyExists returns a StatusAlreadyExists outcome.
func AlreadyExists() Outcome {
	return Outcome{Status: StatusAlreadyExists}
}

// Rejected returns a StatusRejected outcome.
func Rejected(reason string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

// TransportFailure returns a StatusTransportFailure outcome.
func TransportFailure(detail string) Outcome {
	return Outcome{Status: StatusTransportFailure, Reason: detail}
}

// Succeeded reports whether the Job exists on the server after the submission.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusCreated || o.Status == StatusAlreadyExists
}

// Retryable reports whether resubmitting may produce a different outcome.
func (o Outcome) Retryable() bool {
	return o.Status == StatusTransportFailure
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusCreated:
		return fmt.Sprintf("Created(%s)", o.RemoteID)
	case StatusRejected, StatusTransportFailure:
		return fmt.Sprintf("%s(%s)", o.Status, o.Reason)
	default:
		return string(o.Status)
	}
}
