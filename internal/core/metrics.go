package core

import (
	"github.com/rcrowley/go-metrics"
)

type serviceMetrics struct {
	submitted metrics.Counter
	succeeded metrics.Counter
	failed    metrics.Counter
	cancelled metrics.Counter

	// running is incremented when a worker starts & decremented when it ends
	running metrics.Counter

	build metrics.Timer
}

func newServiceMetrics(r metrics.Registry) *serviceMetrics {
	return &serviceMetrics{
		submitted: metrics.GetOrRegisterCounter("jobs.submitted", r),
		succeeded: metrics.GetOrRegisterCounter("jobs.succeeded", r),
		failed:    metrics.GetOrRegisterCounter("jobs.failed", r),
		cancelled: metrics.GetOrRegisterCounter("jobs.cancelled", r),
		running:   metrics.GetOrRegisterCounter("jobs.running", r),
		build:     metrics.GetOrRegisterTimer("archive.build", r),
	}
}
