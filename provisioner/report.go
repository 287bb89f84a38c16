package provisioner

import (
	"errors"
	"fmt"
)

// ResultStatus is the outcome of provisioning a single service.
type ResultStatus int

const (
	StatusFailed ResultStatus = iota
	StatusProvisioned
	StatusSkipped
)

func (s ResultStatus) String() string {
	switch s {
	case StatusProvisioned:
		return "provisioned"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ServiceResult records what happened to one declared service.
type ServiceResult struct {
	Service string
	Target  string
	Status  ResultStatus

	// Err is set when Status is StatusFailed.
	Err error

	// MirrorErr is set when the config was written but mirroring failed.
	MirrorErr error
}

// Report holds the results of a run in declaration order.
type Report struct {
	Results []ServiceResult
}

// Succeeded returns the number of provisioned services.
func (r *Report) Succeeded() int {
	return r.count(StatusProvisioned)
}

// Skipped returns the number of services left untouched.
func (r *Report) Skipped() int {
	return r.count(StatusSkipped)
}

// Failed returns the results of services that could not be provisioned.
func (r *Report) Failed() []ServiceResult {
	var failed []ServiceResult
	for _, result := range r.Results {
		if result.Status == StatusFailed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Err joins the errors of all failed services, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, result := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", result.Service, result.Err))
	}
	return errors.Join(errs...)
}

func (r *Report) count(status ResultStatus) int {
	n := 0
	for _, result := range r.Results {
		if result.Status == status {
			n++
		}
	}
	return n
}
