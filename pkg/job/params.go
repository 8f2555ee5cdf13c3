package job

import (
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
)

// RestartPolicy controls whether failed pods of the Job are restarted in place.
type RestartPolicy string

const (
	RestartPolicyNever     RestartPolicy = RestartPolicy(corev1.RestartPolicyNever)
	RestartPolicyOnFailure RestartPolicy = RestartPolicy(corev1.RestartPolicyOnFailure)
)

// IsValid reports whether the policy is accepted for Jobs.
func (p RestartPolicy) IsValid() bool {
	return p == RestartPolicyNever || p == RestartPolicyOnFailure
}

// String returns the policy name.
func (p RestartPolicy) String() string {
	return string(p)
}

// SupportedRestartPolicies lists the policies a Job may use.
func SupportedRestartPolicies() []string {
	return []string{RestartPolicyNever.String(), RestartPolicyOnFailure.String()}
}

// Params are the inputs to Build. Zero values select the documented defaults.
type Params struct {
	Name          string
	Image         string
	ContainerName string
	Command       []string

	// Requests and Limits map resource names (cpu, memory, ...) to quantities.
	Requests map[string]string
	Limits   map[string]string

	RestartPolicy RestartPolicy

	// BackoffLimit is the number of pod retries performed by the Job controller.
	// Nil selects the default.
	BackoffLimit *int32

	Labels      map[string]string
	Annotations map[string]string
}

// nameTimeLayout renders generated names as prefix-YYYYMMDD-HHMMSS.
const nameTimeLayout = "20060102-150405"

// GenerateName returns a Job name made of the prefix and the timestamp.
func GenerateName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.Format(nameTimeLayout))
}
