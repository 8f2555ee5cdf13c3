package job

import (
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/NVIDIA/jobctl/pkg/defaults"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
)

// LabelApp is the label derived from the Job name when no labels are given.
const LabelApp = "app"

// AnnotationRequestID carries the id of the invocation that submitted the Job.
const AnnotationRequestID = "jobctl.nvidia.com/request-id"

// Build validates p, applies defaults and returns an immutable Descriptor.
// All validation failures are reported together; each wraps ErrInvalidSpec.
func Build(p Params) (*Descriptor, error) {
	var errs []error

	if err := validateName(p.Name); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(p.Image) == "" {
		errs = append(errs, invalid("image", "must not be empty"))
	}

	containerName := p.ContainerName
	if containerName == "" {
		containerName = defaults.ContainerName
	}
	if msgs := validation.IsDNS1123Label(containerName); len(msgs) > 0 {
		errs = append(errs, invalid("containerName", "%q: %s", containerName, strings.Join(msgs, "; ")))
	}

	requests, err := parseResourceList("requests", p.Requests)
	if err != nil {
		errs = append(errs, err)
	}
	limits, err := parseResourceList("limits", p.Limits)
	if err != nil {
		errs = append(errs, err)
	}
	if requests != nil && limits != nil {
		errs = append(errs, checkRequestsWithinLimits(requests, limits)...)
	}

	policy := p.RestartPolicy
	if policy == "" {
		policy = RestartPolicyNever
	}
	if !policy.IsValid() {
		if hint := suggest(string(policy), SupportedRestartPolicies()); hint != "" {
			errs = append(errs, invalid("restartPolicy", "%q, did you mean %q?", policy, hint))
		} else {
			errs = append(errs, invalid("restartPolicy", "%q, supported values: %v", policy, SupportedRestartPolicies()))
		}
	}

	backoffLimit := defaults.BackoffLimit
	if p.BackoffLimit != nil {
		backoffLimit = *p.BackoffLimit
	}
	if backoffLimit < 0 {
		errs = append(errs, invalid("backoffLimit", "must be >= 0, got %d", backoffLimit))
	}

	labels := maps.Clone(p.Labels)
	if len(labels) == 0 {
		labels = map[string]string{LabelApp: p.Name}
	}
	errs = append(errs, validateLabels(labels)...)

	annotations := maps.Clone(p.Annotations)
	errs = append(errs, validateAnnotations(annotations)...)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Descriptor{
		name:          p.Name,
		image:         p.Image,
		containerName: containerName,
		command:       slices.Clone(p.Command),
		requests:      requests,
		limits:        limits,
		restartPolicy: policy,
		backoffLimit:  backoffLimit,
		labels:        labels,
		annotations:   annotations,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return invalid("name", "must not be empty")
	}
	// Pods carry the Job name in the job-name label, which caps it at 63 characters.
	if len(name) > validation.DNS1123LabelMaxLength {
		return invalid("name", "%q: must be no more than %d characters", name, validation.DNS1123LabelMaxLength)
	}
	if msgs := validation.IsDNS1123Subdomain(name); len(msgs) > 0 {
		return invalid("name", "%q: %s", name, strings.Join(msgs, "; "))
	}
	return nil
}

// parseResourceList converts name -> quantity strings. Keys are visited in sorted
// order so error messages are stable.
func parseResourceList(field string, in map[string]string) (corev1.ResourceList, error) {
	if len(in) == 0 {
		return corev1.ResourceList{}, nil
	}

	out := make(corev1.ResourceList, len(in))
	var errs []error
	for _, name := range sortedKeys(in) {
		value := in[name]
		if msgs := validation.IsQualifiedName(name); len(msgs) > 0 {
			errs = append(errs, invalid(field+"."+name, "invalid resource name: %s", strings.Join(msgs, "; ")))
			continue
		}
		q, err := resource.ParseQuantity(value)
		if err != nil {
			errs = append(errs, invalid(field+"."+name, "%q: %v", value, err))
			continue
		}
		if q.Sign() < 0 {
			errs = append(errs, invalid(field+"."+name, "%q: must not be negative", value))
			continue
		}
		out[corev1.ResourceName(name)] = q
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func checkRequestsWithinLimits(requests, limits corev1.ResourceList) []error {
	var errs []error
	names := make([]string, 0, len(requests))
	for name := range requests {
		names = append(names, string(name))
	}
	sort.Strings(names)

	for _, name := range names {
		req := requests[corev1.ResourceName(name)]
		lim, ok := limits[corev1.ResourceName(name)]
		if !ok {
			continue
		}
		if req.Cmp(lim) > 0 {
			errs = append(errs, invalid("requests."+name, "%s must be less than or equal to limit %s", req.String(), lim.String()))
		}
	}
	return errs
}

func validateLabels(labels map[string]string) []error {
	var errs []error
	for _, k := range sortedKeys(labels) {
		if msgs := validation.IsQualifiedName(k); len(msgs) > 0 {
			errs = append(errs, invalid("labels", "key %q: %s", k, strings.Join(msgs, "; ")))
		}
		if msgs := validation.IsValidLabelValue(labels[k]); len(msgs) > 0 {
			errs = append(errs, invalid("labels", "value %q for key %q: %s", labels[k], k, strings.Join(msgs, "; ")))
		}
	}
	return errs
}

func validateAnnotations(annotations map[string]string) []error {
	var errs []error
	for _, k := range sortedKeys(annotations) {
		if msgs := validation.IsQualifiedName(strings.ToLower(k)); len(msgs) > 0 {
			errs = append(errs, invalid("annotations", "key %q: %s", k, strings.Join(msgs, "; ")))
		}
	}
	return errs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
