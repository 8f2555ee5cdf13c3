/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/jobctl/pkg/defaults"
	"github.com/NVIDIA/jobctl/pkg/job"
	"github.com/NVIDIA/jobctl/pkg/logging"
	"github.com/NVIDIA/jobctl/pkg/serializer"
)

const name = "jobctl"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/jobctl/pkg/cli.version=1.0.0"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the jobctl command line and exits the process with the
// submission's exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := newRootCmd()
	err := cmd.Run(ctx, os.Args)
	stop()

	if err != nil && !isReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                      name,
		Version:                   fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		Usage:                     "Submit a Kubernetes batch Job",
		EnableShellCompletion:     true,
		DisableSliceFlagSeparator: true,
		Description: `Builds a batch/v1 Job from the given parameters and submits it with a single
create call. Parameters are validated locally before anything is sent.

# Examples

Submit the default workload with a generated name:
  jobctl

Submit a named Job with explicit resources:
  jobctl --name demo-20190101-080000 --image perl \
    --command perl --command -e --command 'print 1' \
    --cpu-request 200m --cpu-limit 500m --memory-request 500Mi --memory-limit 1Gi

Submit from a job file, overriding the namespace:
  jobctl --file job.yaml --namespace batch

Print the Job without submitting it:
  jobctl --name demo --dry-run --format yaml

# Exit Codes

  0  Job created, or a Job with the same name already exists
  1  Rejected by the API server
  2  Transport failure (network, authentication, availability, timeout)
  3  Invalid job spec; nothing was sent`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Job name (default: <name-prefix>-YYYYMMDD-HHMMSS)",
			},
			&cli.StringFlag{
				Name:  "name-prefix",
				Value: defaults.NamePrefix,
				Usage: "Prefix of the generated Job name when --name is not set",
			},
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"ns"},
				Value:   defaults.Namespace,
				Usage:   "Namespace to create the Job in",
				Sources: cli.EnvVars("JOBCTL_NAMESPACE"),
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "YAML job file (kind: JobRequest); flags override its values",
			},
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Value:   defaults.Image,
				Usage:   "Container image",
			},
			&cli.StringSliceFlag{
				Name:    "command",
				Aliases: []string{"c"},
				Usage:   "Container command, one element per flag (can be repeated; default: the perl pi workload for the default image, else the image entrypoint)",
			},
			&cli.StringFlag{
				Name:  "cpu-request",
				Value: defaults.CPURequest,
				Usage: "CPU request (e.g., 200m)",
			},
			&cli.StringFlag{
				Name:  "cpu-limit",
				Value: defaults.CPULimit,
				Usage: "CPU limit (e.g., 500m)",
			},
			&cli.StringFlag{
				Name:  "memory-request",
				Value: defaults.MemoryRequest,
				Usage: "Memory request (e.g., 500Mi)",
			},
			&cli.StringFlag{
				Name:  "memory-limit",
				Value: defaults.MemoryLimit,
				Usage: "Memory limit (e.g., 1Gi)",
			},
			&cli.StringFlag{
				Name:  "restart-policy",
				Value: job.RestartPolicyNever.String(),
				Usage: fmt.Sprintf("Pod restart policy %v", job.SupportedRestartPolicies()),
			},
			&cli.IntFlag{
				Name:  "backoff-limit",
				Value: int(defaults.BackoffLimit),
				Usage: "Pod retries performed by the Job controller",
			},
			&cli.StringSliceFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "Job label (format: key=value, can be repeated; default: app=<name>)",
			},
			&cli.StringFlag{
				Name:    "kubeconfig",
				Aliases: []string{"k"},
				Usage:   "Path to kubeconfig file (default: KUBECONFIG, then ~/.kube/config, then in-cluster)",
				Sources: cli.EnvVars("KUBECONFIG"),
			},
			&cli.StringFlag{
				Name:  "context",
				Usage: "Kubeconfig context to use",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.SubmitTimeout,
				Usage: "Timeout of the create request",
			},
			&cli.IntFlag{
				Name:  "retries",
				Value: 0,
				Usage: "Resubmissions after a transport failure, with exponential backoff",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the Job instead of submitting it",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatYAML),
				Usage:   fmt.Sprintf("Dry run output format %v", serializer.SupportedFormats()),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			opts := logging.Options{JSON: cmd.Bool("log-json"), Writer: cmd.Root().ErrWriter}
			if opts.JSON {
				opts.Module = name
				opts.Version = version
			}
			if cmd.Bool("debug") {
				opts.Level = "debug"
			}
			logging.SetDefault(opts)
			return ctx, nil
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action:         submitAction,
	}
}
