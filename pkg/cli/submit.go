/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/jobctl/pkg/defaults"
	"github.com/NVIDIA/jobctl/pkg/job"
	"github.com/NVIDIA/jobctl/pkg/k8s/client"
	"github.com/NVIDIA/jobctl/pkg/serializer"
	"github.com/NVIDIA/jobctl/pkg/submit"
)

// now is replaced in tests.
var now = time.Now

func submitAction(ctx context.Context, cmd *cli.Command) error {
	requestID := uuid.NewString()
	logger := slog.With(slog.String("request_id", requestID))

	params, namespace, err := paramsFromCommand(cmd)
	if err != nil {
		return &exitError{code: ExitInvalidSpec, err: err}
	}
	params.Annotations = mergeMaps(params.Annotations, map[string]string{
		job.AnnotationRequestID: requestID,
	})

	desc, err := job.Build(params)
	if err != nil {
		return &exitError{code: ExitInvalidSpec, err: err}
	}

	retries := cmd.Int("retries")
	if retries < 0 {
		return &exitError{code: ExitInvalidSpec, err: fmt.Errorf("invalid --retries %d: must not be negative", retries)}
	}

	out := stdout(cmd)

	if cmd.Bool("dry-run") {
		format, err := parseOutputFormat(cmd)
		if err != nil {
			return &exitError{code: ExitInvalidSpec, err: err}
		}
		j := desc.Job()
		j.Namespace = namespace
		logger.Debug("dry run, job not submitted", slog.String("name", desc.Name()))
		if err := serializer.NewWriter(format, out).Serialize(ctx, j); err != nil {
			return &exitError{code: ExitTransportFailure, err: err}
		}
		return nil
	}

	clientset, _, err := client.Build(client.Config{
		Kubeconfig: cmd.String("kubeconfig"),
		Context:    cmd.String("context"),
		UserAgent:  fmt.Sprintf("%s/%s", name, version),
	})
	if err != nil {
		return &exitError{code: ExitTransportFailure, err: fmt.Errorf("failed to load cluster configuration: %w", err)}
	}

	sub := submit.NewClient(clientset, submit.WithTimeout(cmd.Duration("timeout")))

	logger.Debug("submitting job",
		slog.String("name", desc.Name()),
		slog.String("namespace", namespace),
		slog.String("image", desc.Image()),
		slog.Duration("timeout", sub.Timeout()),
	)

	outcome := submit.SubmitWithRetry(ctx, sub, desc, namespace, submit.DefaultBackoff(retries+1))

	logger.Info("job submission finished",
		slog.String("name", desc.Name()),
		slog.String("namespace", namespace),
		slog.String("outcome", string(outcome.Status)),
		slog.String("uid", string(outcome.UID)),
	)

	fmt.Fprintln(out, statusLine(desc.Name(), namespace, outcome))

	if outcome.Succeeded() {
		return nil
	}
	return &exitError{
		code:     outcomeExitCode(outcome),
		err:      fmt.Errorf("job %s: %s", desc.Name(), outcome),
		reported: true,
	}
}

// statusLine renders the single human-readable result line.
func statusLine(jobName, namespace string, out submit.Outcome) string {
	ref := "job.batch/" + jobName
	switch out.Status {
	case submit.StatusCreated:
		return fmt.Sprintf("%s created in namespace %s", ref, namespace)
	case submit.StatusAlreadyExists:
		return fmt.Sprintf("%s already exists in namespace %s", ref, namespace)
	case submit.StatusRejected:
		return fmt.Sprintf("%s rejected: %s", ref, out.Reason)
	default:
		return fmt.Sprintf("%s not submitted: transport failure: %s", ref, out.Reason)
	}
}

// paramsFromCommand assembles builder parameters. Precedence, lowest first:
// flag defaults, the job file, flags set on the command line or environment.
func paramsFromCommand(cmd *cli.Command) (job.Params, string, error) {
	var f *job.File
	if path := cmd.String("file"); path != "" {
		loaded, err := job.LoadFile(path)
		if err != nil {
			return job.Params{}, "", err
		}
		f = loaded
	}

	var p job.Params
	namespace := cmd.String("namespace")
	if f != nil {
		p = f.Params()
		if f.Metadata.Namespace != "" && !cmd.IsSet("namespace") {
			namespace = f.Metadata.Namespace
		}
	}

	if namespace == "" {
		namespace = defaults.Namespace
	}

	switch {
	case cmd.IsSet("name"):
		p.Name = cmd.String("name")
	case p.Name == "":
		p.Name = job.GenerateName(cmd.String("name-prefix"), now())
	}

	p.Image = pick(cmd, "image", p.Image)
	p.RestartPolicy = job.RestartPolicy(pick(cmd, "restart-policy", p.RestartPolicy.String()))

	switch {
	case cmd.IsSet("command"):
		p.Command = cmd.StringSlice("command")
	case len(p.Command) == 0 && p.Image == defaults.Image:
		p.Command = defaults.Command()
	}

	if cmd.IsSet("backoff-limit") || p.BackoffLimit == nil {
		limit := cmd.Int("backoff-limit")
		if limit > math.MaxInt32 || limit < math.MinInt32 {
			return job.Params{}, "", fmt.Errorf("invalid --backoff-limit %d: out of range", limit)
		}
		p.BackoffLimit = ptr.To(int32(limit))
	}

	// Resource flag defaults only apply without a job file.
	requests := map[string]string{}
	limits := map[string]string{}
	for _, rf := range []struct {
		flag     string
		resource string
		target   map[string]string
	}{
		{"cpu-request", "cpu", requests},
		{"memory-request", "memory", requests},
		{"cpu-limit", "cpu", limits},
		{"memory-limit", "memory", limits},
	} {
		if f == nil || cmd.IsSet(rf.flag) {
			rf.target[rf.resource] = cmd.String(rf.flag)
		}
	}
	p.Requests = mergeMaps(p.Requests, requests)
	p.Limits = mergeMaps(p.Limits, limits)

	if cmd.IsSet("label") {
		labels, err := parseKeyValues(cmd.StringSlice("label"))
		if err != nil {
			return job.Params{}, "", fmt.Errorf("invalid --label: %w", err)
		}
		p.Labels = mergeMaps(p.Labels, labels)
	}

	return p, namespace, nil
}

// pick returns the file value unless the flag was set explicitly or the file
// left it empty.
func pick(cmd *cli.Command, flag, fileValue string) string {
	if fileValue != "" && !cmd.IsSet(flag) {
		return fileValue
	}
	return cmd.String(flag)
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
