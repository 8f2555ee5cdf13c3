package submit

import (
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/jobctl/pkg/defaults"
	"github.com/NVIDIA/jobctl/pkg/job"

	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
)

// FieldManager identifies jobctl as the writer of the created Jobs.
const FieldManager = "jobctl"

// Submitter submits a descriptor to a namespace and classifies the result.
type Submitter interface {
	Submit(ctx context.Context, d *job.Descriptor, namespace string) Outcome
}

// Option is a functional option for configuring Client instances.
type Option func(*Client)

// WithTimeout bounds each create request. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithFieldManager overrides the field manager recorded on created Jobs.
func WithFieldManager(name string) Option {
	return func(c *Client) {
		c.fieldManager = name
	}
}

// Client creates Jobs through the batch/v1 API.
type Client struct {
	clientset    kubernetes.Interface
	timeout      time.Duration
	fieldManager string
}

// NewClient returns a Client using clientset for API calls.
func NewClient(clientset kubernetes.Interface, opts ...Option) *Client {
	c := &Client{
		clientset:    clientset,
		timeout:      defaults.SubmitTimeout,
		fieldManager: FieldManager,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Submit issues one create request for d in namespace. An empty namespace
// selects the default namespace.
func (c *Client) Submit(ctx context.Context, d *job.Descriptor, namespace string) Outcome {
	if namespace == "" {
		namespace = defaults.Namespace
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	obj := d.Job()
	obj.Namespace = namespace

	slog.Debug("creating job",
		slog.String("name", obj.Name),
		slog.String("namespace", namespace),
		slog.Duration("timeout", c.timeout),
	)

	start := time.Now()
	created, err := c.create(reqCtx, namespace, obj)
	submissionDuration.Observe(time.Since(start).Seconds())

	var out Outcome
	if err != nil {
		out = classify(reqCtx, err)
		slog.Debug("job create failed",
			slog.String("name", obj.Name),
			slog.String("outcome", string(out.Status)),
			slog.String("error", err.Error()),
		)
	} else {
		out = Created(created.Name, created.UID)
	}

	submissionTotal.WithLabelValues(metricLabel(out.Status)).Inc()
	return out
}

// create sends a single POST. client-go resends requests answered with
// Retry-After up to ten times by default, so retries are disabled on the
// request. Clientsets without a REST client (fakes) never resend and go
// through the typed client.
func (c *Client) create(ctx context.Context, namespace string, obj *batchv1.Job) (*batchv1.Job, error) {
	opts := metav1.CreateOptions{FieldManager: c.fieldManager}

	rc, ok := c.clientset.BatchV1().RESTClient().(*rest.RESTClient)
	if !ok || rc == nil {
		return c.clientset.BatchV1().Jobs(namespace).Create(ctx, obj, opts)
	}

	result := &batchv1.Job{}
	err := rc.Post().
		Namespace(namespace).
		Resource("jobs").
		VersionedParams(&opts, scheme.ParameterCodec).
		Body(obj).
		MaxRetries(0).
		Do(ctx).
		Into(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
