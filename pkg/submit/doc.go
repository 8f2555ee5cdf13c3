/*
Package submit creates Jobs on a Kubernetes API server and classifies the result.

A Client issues exactly one create request per Submit call, bounded by a
request timeout, and maps the response to an Outcome:

	Created           the Job was created; RemoteID is its name
	AlreadyExists     a Job with the same name exists in the namespace
	Rejected          the API server refused the Job (validation, quota, missing namespace)
	TransportFailure  network, authentication, or availability failure

AlreadyExists is not an error: resubmitting an identical descriptor is safe and
the second call reports AlreadyExists instead of creating a duplicate.

The Client never retries. Callers that want to retry transport failures use
SubmitWithRetry, which resubmits with exponential backoff up to a bounded
number of attempts and stops at the first outcome that is not a transport
failure.

# Usage

	clientset, _, err := client.Build(client.Config{})
	if err != nil {
		return err
	}

	d, err := job.Build(job.Params{Name: "demo", Image: "perl"})
	if err != nil {
		return err
	}

	c := submit.NewClient(clientset, submit.WithTimeout(30*time.Second))
	out := c.Submit(ctx, d, "default")
	if !out.Succeeded() {
		return fmt.Errorf("submission failed: %s", out)
	}
*/
package submit
