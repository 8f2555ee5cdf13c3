/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"

	"github.com/NVIDIA/jobctl/pkg/defaults"
	"github.com/NVIDIA/jobctl/pkg/job"
	"github.com/NVIDIA/jobctl/pkg/k8s/apitest"
	"github.com/NVIDIA/jobctl/pkg/submit"
)

const demoName = "intlcrpglobal-20190101-080000"

var jobsResource = schema.GroupResource{Group: "batch", Resource: "jobs"}

type result struct {
	stdout string
	stderr string
	err    error
	code   int
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	for _, env := range []string{"JOBCTL_NAMESPACE", "KUBECONFIG", "LOG_LEVEL"} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut

	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return result{stdout: out.String(), stderr: errOut.String(), err: err, code: ExitCode(err)}
}

func TestRootCmd_DemoCreated(t *testing.T) {
	srv := apitest.NewServer(t)
	kubeconfig := srv.WriteKubeconfig(t)

	res := runCLI(t, "--kubeconfig", kubeconfig, "--name", demoName)

	require.NoError(t, res.err)
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "job.batch/"+demoName+" created in namespace default\n", res.stdout)
	assert.Equal(t, 1, srv.Creates())

	j, ok := srv.Job("default", demoName)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"app": demoName}, j.Spec.Template.Labels)
	assert.Equal(t, corev1.RestartPolicyNever, j.Spec.Template.Spec.RestartPolicy)
	require.NotNil(t, j.Spec.BackoffLimit)
	assert.Equal(t, int32(4), *j.Spec.BackoffLimit)
	assert.NotEmpty(t, j.Annotations[job.AnnotationRequestID])

	require.Len(t, j.Spec.Template.Spec.Containers, 1)
	c := j.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "perl", c.Image)
	assert.Equal(t, defaults.Command(), c.Command)
	assert.Equal(t, "200m", c.Resources.Requests.Cpu().String())
	assert.Equal(t, "500Mi", c.Resources.Requests.Memory().String())
	assert.Equal(t, "500m", c.Resources.Limits.Cpu().String())
	assert.Equal(t, "1Gi", c.Resources.Limits.Memory().String())
}

func TestRootCmd_AlreadyExistsIsSuccess(t *testing.T) {
	srv := apitest.NewServer(t)
	kubeconfig := srv.WriteKubeconfig(t)

	first := runCLI(t, "--kubeconfig", kubeconfig, "--name", demoName)
	require.Equal(t, ExitOK, first.code)

	second := runCLI(t, "--kubeconfig", kubeconfig, "--name", demoName)
	require.NoError(t, second.err)
	assert.Equal(t, ExitOK, second.code)
	assert.Contains(t, second.stdout, "already exists")
	assert.Equal(t, 2, srv.Creates())
}

func TestRootCmd_Namespace(t *testing.T) {
	srv := apitest.NewServer(t)
	kubeconfig := srv.WriteKubeconfig(t)

	res := runCLI(t, "--kubeconfig", kubeconfig, "--name", "demo", "--namespace", "batch")
	require.Equal(t, ExitOK, res.code)

	_, ok := srv.Job("batch", "demo")
	assert.True(t, ok)
	_, ok = srv.Job("default", "demo")
	assert.False(t, ok)
}

func TestRootCmd_Timeout(t *testing.T) {
	srv := apitest.NewServer(t, apitest.WithDelay(5*time.Second))
	kubeconfig := srv.WriteKubeconfig(t)

	start := time.Now()
	res := runCLI(t, "--kubeconfig", kubeconfig, "--name", demoName, "--timeout", "100ms")

	assert.Equal(t, ExitTransportFailure, res.code)
	assert.Contains(t, res.stdout, "transport failure: timeout")
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.True(t, isReported(res.err))
}

func TestRootCmd_ServerOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      *apierrors.StatusError
		wantCode int
		wantOut  string
	}{
		{
			name:     "quota exceeded",
			err:      apierrors.NewForbidden(jobsResource, demoName, errors.New("exceeded quota: compute-resources")),
			wantCode: ExitRejected,
			wantOut:  "rejected:",
		},
		{
			name:     "bad request",
			err:      apierrors.NewBadRequest("malformed job"),
			wantCode: ExitRejected,
			wantOut:  "rejected: malformed job",
		},
		{
			name:     "unauthorized",
			err:      apierrors.NewUnauthorized("token expired"),
			wantCode: ExitTransportFailure,
			wantOut:  "transport failure: unauthorized",
		},
		{
			name:     "throttled with retry-after",
			err:      apierrors.NewTooManyRequests("too many requests", 1),
			wantCode: ExitTransportFailure,
			wantOut:  "transport failure: too many requests",
		},
		{
			name:     "unavailable",
			err:      apierrors.NewServiceUnavailable("etcd down"),
			wantCode: ExitTransportFailure,
			wantOut:  "transport failure: etcd down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t, apitest.WithError(tt.err))
			kubeconfig := srv.WriteKubeconfig(t)

			res := runCLI(t, "--kubeconfig", kubeconfig, "--name", demoName)

			assert.Equal(t, tt.wantCode, res.code)
			assert.Contains(t, res.stdout, tt.wantOut)
			assert.Equal(t, 1, srv.Creates())
		})
	}
}

func TestRootCmd_InvalidSpecSendsNothing(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "request above limit",
			args:    []string{"--name", demoName, "--cpu-request", "1", "--cpu-limit", "500m"},
			wantErr: "must be less than or equal to limit",
		},
		{
			name:    "empty name",
			args:    []string{"--name", ""},
			wantErr: "name",
		},
		{
			name:    "invalid name",
			args:    []string{"--name", "Bad_Name"},
			wantErr: "name",
		},
		{
			name:    "bad quantity",
			args:    []string{"--name", demoName, "--memory-limit", "lots"},
			wantErr: "limits",
		},
		{
			name:    "negative backoff limit",
			args:    []string{"--name", demoName, "--backoff-limit", "-1"},
			wantErr: "backoffLimit",
		},
		{
			name:    "unknown restart policy",
			args:    []string{"--name", demoName, "--restart-policy", "Always"},
			wantErr: "restartPolicy",
		},
		{
			name:    "malformed label",
			args:    []string{"--name", demoName, "--label", "team"},
			wantErr: "expected key=value",
		},
		{
			name:    "missing job file",
			args:    []string{"--file", "/nonexistent/job.yaml"},
			wantErr: "job.yaml",
		},
		{
			name:    "negative retries",
			args:    []string{"--name", demoName, "--retries", "-1"},
			wantErr: "retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			kubeconfig := srv.WriteKubeconfig(t)

			res := runCLI(t, append([]string{"--kubeconfig", kubeconfig}, tt.args...)...)

			require.Error(t, res.err)
			assert.Equal(t, ExitInvalidSpec, res.code)
			assert.Contains(t, res.err.Error(), tt.wantErr)
			assert.Empty(t, res.stdout)
			assert.Equal(t, 0, srv.Creates())
		})
	}
}

func TestRootCmd_MissingKubeconfig(t *testing.T) {
	res := runCLI(t, "--kubeconfig", filepath.Join(t.TempDir(), "missing"), "--name", demoName)

	require.Error(t, res.err)
	assert.Equal(t, ExitTransportFailure, res.code)
	assert.Contains(t, res.err.Error(), "cluster configuration")
	assert.False(t, isReported(res.err))
}

func TestRootCmd_DryRun(t *testing.T) {
	// The kubeconfig does not exist; a dry run must not load it.
	missing := filepath.Join(t.TempDir(), "missing")

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, "--kubeconfig", missing, "--name", "demo", "--namespace", "batch",
			"--dry-run", "--format", "json")
		require.NoError(t, res.err)

		var j batchv1.Job
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &j))
		assert.Equal(t, "batch/v1", j.APIVersion)
		assert.Equal(t, "Job", j.Kind)
		assert.Equal(t, "demo", j.Name)
		assert.Equal(t, "batch", j.Namespace)
	})

	t.Run("yaml", func(t *testing.T) {
		res := runCLI(t, "--kubeconfig", missing, "--name", "demo", "--dry-run")
		require.NoError(t, res.err)

		var j batchv1.Job
		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &j))
		assert.Equal(t, "demo", j.Name)
		assert.Equal(t, "default", j.Namespace)
	})

	t.Run("unknown format", func(t *testing.T) {
		res := runCLI(t, "--kubeconfig", missing, "--name", "demo", "--dry-run", "--format", "xml")
		assert.Equal(t, ExitInvalidSpec, res.code)
	})
}

func TestRootCmd_GeneratedName(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	res := runCLI(t, "--name-prefix", "intlcrpglobal", "--dry-run", "--format", "json")
	require.NoError(t, res.err)

	var j batchv1.Job
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &j))
	assert.Equal(t, demoName, j.Name)
	assert.Equal(t, demoName, j.Spec.Template.Labels["app"])
}

func TestRootCmd_FileWithOverrides(t *testing.T) {
	srv := apitest.NewServer(t)
	kubeconfig := srv.WriteKubeconfig(t)

	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`kind: JobRequest
apiVersion: jobctl.nvidia.com/v1alpha1
metadata:
  name: from-file
  namespace: team-a
  labels:
    team: research
spec:
  image: busybox
  requests:
    cpu: 100m
  limits:
    cpu: 200m
  backoffLimit: 1
`), 0o600))

	res := runCLI(t, "--kubeconfig", kubeconfig, "--file", path,
		"--image", "alpine", "--memory-limit", "64Mi", "--label", "tier=batch")
	require.NoError(t, res.err)
	assert.Equal(t, "job.batch/from-file created in namespace team-a\n", res.stdout)

	j, ok := srv.Job("team-a", "from-file")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"team": "research", "tier": "batch"}, j.Labels)
	require.NotNil(t, j.Spec.BackoffLimit)
	assert.Equal(t, int32(1), *j.Spec.BackoffLimit)

	c := j.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "alpine", c.Image)
	assert.Empty(t, c.Command)
	assert.Equal(t, "100m", c.Resources.Requests.Cpu().String())
	assert.True(t, c.Resources.Requests.Memory().IsZero())
	assert.Equal(t, "200m", c.Resources.Limits.Cpu().String())
	assert.Equal(t, "64Mi", c.Resources.Limits.Memory().String())
}

func TestRootCmd_CommandFlag(t *testing.T) {
	res := runCLI(t, "--name", "demo", "--image", "busybox",
		"--command", "sh", "--command", "-c", "--command", "echo a,b", "--dry-run", "--format", "json")
	require.NoError(t, res.err)

	var j batchv1.Job
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &j))
	assert.Equal(t, []string{"sh", "-c", "echo a,b"}, j.Spec.Template.Spec.Containers[0].Command)
}

func TestRootCmd_CommandStructure(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, name, cmd.Name)
	assert.NotEmpty(t, cmd.Usage)
	assert.NotEmpty(t, cmd.Description)
	assert.NotNil(t, cmd.Action)

	required := []string{"name", "name-prefix", "namespace", "file", "image", "command",
		"cpu-request", "cpu-limit", "memory-request", "memory-limit", "restart-policy",
		"backoff-limit", "label", "kubeconfig", "context", "timeout", "retries",
		"dry-run", "format", "debug", "log-json"}
	for _, flagName := range required {
		found := false
		for _, flag := range cmd.Flags {
			for _, n := range flag.Names() {
				if n == flagName {
					found = true
				}
			}
		}
		assert.True(t, found, "flag %q not found", flagName)
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		outcome submit.Outcome
		want    string
	}{
		{submit.Created("demo", "uid-1"), "job.batch/demo created in namespace ns"},
		{submit.AlreadyExists(), "job.batch/demo already exists in namespace ns"},
		{submit.Rejected("quota"), "job.batch/demo rejected: quota"},
		{submit.TransportFailure("timeout"), "job.batch/demo not submitted: transport failure: timeout"},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome.Status), func(t *testing.T) {
			assert.Equal(t, tt.want, statusLine("demo", "ns", tt.outcome))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitInvalidSpec, ExitCode(errors.New("flag provided but not defined")))
	assert.Equal(t, ExitRejected, ExitCode(&exitError{code: ExitRejected, err: errors.New("x")}))

	wrapped := errors.Join(errors.New("outer"), &exitError{code: ExitTransportFailure, err: errors.New("x")})
	assert.Equal(t, ExitTransportFailure, ExitCode(wrapped))

	assert.Equal(t, ExitOK, outcomeExitCode(submit.Created("a", "")))
	assert.Equal(t, ExitOK, outcomeExitCode(submit.AlreadyExists()))
	assert.Equal(t, ExitRejected, outcomeExitCode(submit.Rejected("r")))
	assert.Equal(t, ExitTransportFailure, outcomeExitCode(submit.TransportFailure("d")))
}
