// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the command-line interface of jobctl.
//
// # Overview
//
// jobctl builds a single batch/v1 Job from flags or a job file, validates it
// locally and submits it with one create call:
//
//	jobctl [--name NAME] [--image IMAGE] [--command ARG ...]
//	       [--cpu-request Q] [--cpu-limit Q] [--memory-request Q] [--memory-limit Q]
//	       [--namespace NS] [--file job.yaml] [--timeout 30s] [--retries N]
//
// Without --name the Job is named <name-prefix>-YYYYMMDD-HHMMSS.
//
// # Job File
//
// The --file/-f flag reads parameters from a YAML document of kind JobRequest.
// Flags given on the command line or through the environment override file
// values; flag defaults only fill fields the file leaves empty. Resource
// defaults are not applied when a file is used.
//
// # Output
//
// A single status line is printed to stdout:
//
//	job.batch/demo created in namespace default
//	job.batch/demo already exists in namespace default
//	job.batch/demo rejected: <server message>
//	job.batch/demo not submitted: transport failure: timeout
//
// With --dry-run the rendered Job is printed instead (--format yaml|json) and
// no cluster configuration is loaded.
//
// # Exit Codes
//
//	0  created, or already exists
//	1  rejected by the API server
//	2  transport failure
//	3  invalid job spec; no request was sent
//
// # Logging
//
// Logs go to stderr. --debug lowers the level to debug, --log-json switches to
// the JSON handler. LOG_LEVEL is honoured when --debug is not set.
//
// # Environment
//
//	KUBECONFIG        kubeconfig path
//	JOBCTL_NAMESPACE  default namespace
//	LOG_LEVEL         debug, info, warn, error
package cli
