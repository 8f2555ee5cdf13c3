/*
Package job builds immutable batch/v1 Job descriptors from a small set of
named parameters.

Build is a pure function: it validates the parameters locally, applies
defaults, and returns a Descriptor. It never talks to the API server, so a
rejected parameter set can never leave a partial Job behind.

# Validation

Build rejects, with an error wrapping ErrInvalidSpec:
  - an empty name, or one that is not a DNS-1123 subdomain of at most 63 characters
  - an empty image
  - resource quantities that do not parse or are negative
  - a request larger than the limit for the same resource
  - a negative backoff limit or an unknown restart policy
  - label keys or values the API server would reject

# Defaults

	Labels        {app: <name>}
	BackoffLimit  4
	RestartPolicy Never
	ContainerName main

# Job Files

Parameters can also be read from a YAML file:

	kind: JobRequest
	apiVersion: jobctl.nvidia.com/v1alpha1
	metadata:
	  name: demo-20190101-080000
	  namespace: default
	spec:
	  image: perl
	  command: ["perl", "-e", "print 1"]
	  requests:
	    cpu: 200m
	    memory: 500Mi
	  limits:
	    cpu: 500m
	    memory: 1Gi
	  restartPolicy: Never
	  backoffLimit: 4
*/
package job
