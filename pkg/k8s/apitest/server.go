// Package apitest provides an in-process Kubernetes API server that implements
// just enough of the batch/v1 Jobs endpoint to exercise real client-go clients
// in tests: create with name conflicts, injected latency, and injected failures.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

const jobsPathPrefix = "/apis/batch/v1/namespaces/"

var jobsResource = schema.GroupResource{Group: batchv1.GroupName, Resource: "jobs"}

// Option configures a Server.
type Option func(*Server)

// WithDelay holds every create request for d, or until the client goes away.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithError makes every create request fail with the given status error.
func WithError(err *apierrors.StatusError) Option {
	return func(s *Server) {
		s.failWith = err
	}
}

// Server is a fake Jobs endpoint backed by an in-memory map.
type Server struct {
	*httptest.Server

	delay    time.Duration
	failWith *apierrors.StatusError

	mu           sync.Mutex
	jobs         map[string]*batchv1.Job
	creates      int
	fieldManager string
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{jobs: map[string]*batchv1.Job{}}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Creates returns the number of create requests received.
func (s *Server) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// FieldManager returns the fieldManager query parameter of the last create.
func (s *Server) FieldManager() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldManager
}

// Job returns a stored Job.
func (s *Server) Job(namespace, name string) (*batchv1.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[namespace+"/"+name]
	if !ok {
		return nil, false
	}
	return j.DeepCopy(), true
}

// RestConfig returns a client configuration pointing at the server.
func (s *Server) RestConfig() *rest.Config {
	return &rest.Config{
		Host: s.URL,
		ContentConfig: rest.ContentConfig{
			ContentType: "application/json",
		},
	}
}

// Clientset returns a real clientset talking to the server.
func (s *Server) Clientset(t testing.TB) kubernetes.Interface {
	t.Helper()
	cs, err := kubernetes.NewForConfig(s.RestConfig())
	if err != nil {
		t.Fatalf("failed to create clientset: %v", err)
	}
	return cs
}

// WriteKubeconfig writes a kubeconfig selecting the server and returns its path.
func (s *Server) WriteKubeconfig(t testing.TB) string {
	t.Helper()
	content := fmt.Sprintf(`apiVersion: v1
kind: Config
clusters:
- name: apitest
  cluster:
    server: %s
contexts:
- name: apitest
  context:
    cluster: apitest
    user: apitest
current-context: apitest
users:
- name: apitest
  user: {}
`, s.URL)

	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}
	return path
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	namespace, ok := parseJobsPath(r.URL.Path)
	if !ok || r.Method != http.MethodPost {
		writeStatus(w, apierrors.NewNotFound(jobsResource, r.URL.Path))
		return
	}

	s.mu.Lock()
	s.creates++
	s.fieldManager = r.URL.Query().Get("fieldManager")
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	if s.failWith != nil {
		writeStatus(w, s.failWith)
		return
	}

	var j batchv1.Job
	if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
		writeStatus(w, apierrors.NewBadRequest(err.Error()))
		return
	}
	j.Namespace = namespace

	s.mu.Lock()
	key := namespace + "/" + j.Name
	if _, exists := s.jobs[key]; exists {
		s.mu.Unlock()
		writeStatus(w, apierrors.NewAlreadyExists(jobsResource, j.Name))
		return
	}
	j.UID = types.UID(uuid.NewString())
	j.CreationTimestamp = metav1.Now()
	s.jobs[key] = j.DeepCopy()
	s.mu.Unlock()

	j.APIVersion = batchv1.SchemeGroupVersion.String()
	j.Kind = "Job"
	writeJSON(w, http.StatusCreated, &j)
}

// parseJobsPath extracts the namespace from /apis/batch/v1/namespaces/{ns}/jobs.
func parseJobsPath(path string) (string, bool) {
	trimmed, ok := strings.CutPrefix(path, jobsPathPrefix)
	if !ok {
		return "", false
	}
	namespace, tail, ok := strings.Cut(trimmed, "/")
	if !ok || tail != "jobs" || namespace == "" {
		return "", false
	}
	return namespace, true
}

func writeStatus(w http.ResponseWriter, err *apierrors.StatusError) {
	status := err.ErrStatus
	status.Kind = "Status"
	status.APIVersion = "v1"
	if status.Details != nil && status.Details.RetryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(status.Details.RetryAfterSeconds)))
	}
	writeJSON(w, int(status.Code), &status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
