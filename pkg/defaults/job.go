package defaults

// Job parameters applied when the caller leaves them unset.
const (
	// Namespace is the namespace Jobs are created in.
	Namespace = "default"

	// NamePrefix is used to generate a Job name when none is given.
	NamePrefix = "job"

	// ContainerName is the name of the single container in the pod template.
	ContainerName = "main"

	// Image is the container image of the default workload.
	Image = "perl"

	// BackoffLimit is the number of pod retries the Job controller performs.
	BackoffLimit int32 = 4

	// CPURequest, CPULimit, MemoryRequest and MemoryLimit size the default workload.
	CPURequest    = "200m"
	CPULimit      = "500m"
	MemoryRequest = "500Mi"
	MemoryLimit   = "1Gi"
)

// Command returns the default workload command: compute pi to 2000 digits.
func Command() []string {
	return []string{"perl", "-Mbignum=bpi", "-wle", "print bpi(2000)"}
}
