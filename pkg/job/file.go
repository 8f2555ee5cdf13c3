package job

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// FileKind is the kind expected in job files.
	FileKind = "JobRequest"

	// FileAPIVersion is the apiVersion expected in job files.
	FileAPIVersion = "jobctl.nvidia.com/v1alpha1"
)

// File is the on-disk representation of a job request.
type File struct {
	Kind       string       `yaml:"kind"`
	APIVersion string       `yaml:"apiVersion"`
	Metadata   FileMetadata `yaml:"metadata"`
	Spec       FileSpec     `yaml:"spec"`
}

// FileMetadata identifies the Job.
type FileMetadata struct {
	Name        string            `yaml:"name,omitempty"`
	Namespace   string            `yaml:"namespace,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// FileSpec describes the workload.
type FileSpec struct {
	Image         string            `yaml:"image,omitempty"`
	ContainerName string            `yaml:"containerName,omitempty"`
	Command       []string          `yaml:"command,omitempty"`
	Requests      map[string]string `yaml:"requests,omitempty"`
	Limits        map[string]string `yaml:"limits,omitempty"`
	RestartPolicy string            `yaml:"restartPolicy,omitempty"`
	BackoffLimit  *int32            `yaml:"backoffLimit,omitempty"`
}

// LoadFile reads and parses a job file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %q: %w", path, err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job file %q: %w", path, err)
	}
	return f, nil
}

// ParseFile decodes a job file. Unknown fields are rejected. Kind and apiVersion
// may be omitted but must match when present.
func ParseFile(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("job file is empty")
		}
		return nil, err
	}

	if f.Kind != "" && f.Kind != FileKind {
		return nil, fmt.Errorf("unexpected kind %q, want %q", f.Kind, FileKind)
	}
	if f.APIVersion != "" && f.APIVersion != FileAPIVersion {
		return nil, fmt.Errorf("unexpected apiVersion %q, want %q", f.APIVersion, FileAPIVersion)
	}
	return &f, nil
}

// Params converts the file into builder parameters.
func (f *File) Params() Params {
	return Params{
		Name:          f.Metadata.Name,
		Image:         f.Spec.Image,
		ContainerName: f.Spec.ContainerName,
		Command:       f.Spec.Command,
		Requests:      f.Spec.Requests,
		Limits:        f.Spec.Limits,
		RestartPolicy: RestartPolicy(f.Spec.RestartPolicy),
		BackoffLimit:  f.Spec.BackoffLimit,
		Labels:        f.Metadata.Labels,
		Annotations:   f.Metadata.Annotations,
	}
}
