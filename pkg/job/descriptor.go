package job

import (
	"maps"
	"slices"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

// Descriptor is a validated, immutable description of one Job submission.
// Accessors return copies; mutating them does not affect the Descriptor.
type Descriptor struct {
	name          string
	image         string
	containerName string
	command       []string
	requests      corev1.ResourceList
	limits        corev1.ResourceList
	restartPolicy RestartPolicy
	backoffLimit  int32
	labels        map[string]string
	annotations   map[string]string
}

// Name returns the Job name.
func (d *Descriptor) Name() string {
	return d.name
}

// Image returns the container image reference.
func (d *Descriptor) Image() string {
	return d.image
}

// ContainerName returns the name of the single pod container.
func (d *Descriptor) ContainerName() string {
	return d.containerName
}

// Command returns the container command. Empty means the image entrypoint.
func (d *Descriptor) Command() []string {
	return slices.Clone(d.command)
}

// Requests returns the resource requests.
func (d *Descriptor) Requests() corev1.ResourceList {
	return d.requests.DeepCopy()
}

// Limits returns the resource limits.
func (d *Descriptor) Limits() corev1.ResourceList {
	return d.limits.DeepCopy()
}

func (d *Descriptor) RestartPolicy() RestartPolicy {
	return d.restartPolicy
}

func (d *Descriptor) BackoffLimit() int32 {
	return d.backoffLimit
}

func (d *Descriptor) Labels() map[string]string {
	return maps.Clone(d.labels)
}

func (d *Descriptor) Annotations() map[string]string {
	return maps.Clone(d.annotations)
}

// Job renders the descriptor as a new batch/v1 Job. The namespace is left empty;
// it is set by the submitter.
func (d *Descriptor) Job() *batchv1.Job {
	container := corev1.Container{
		Name:    d.containerName,
		Image:   d.image,
		Command: slices.Clone(d.command),
	}
	if len(d.requests) > 0 || len(d.limits) > 0 {
		container.Resources = corev1.ResourceRequirements{}
		if len(d.requests) > 0 {
			container.Resources.Requests = d.requests.DeepCopy()
		}
		if len(d.limits) > 0 {
			container.Resources.Limits = d.limits.DeepCopy()
		}
	}

	return &batchv1.Job{
		TypeMeta: metav1.TypeMeta{
			APIVersion: batchv1.SchemeGroupVersion.String(),
			Kind:       "Job",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:        d.name,
			Labels:      maps.Clone(d.labels),
			Annotations: maps.Clone(d.annotations),
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: ptr.To(d.backoffLimit),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: maps.Clone(d.labels),
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicy(d.restartPolicy),
					Containers:    []corev1.Container{container},
				},
			},
		},
	}
}
