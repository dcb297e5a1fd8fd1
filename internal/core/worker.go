package core

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voidshard/archivist/pkg/archive"
	"github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

// work drives a single job from RUNNING to some final state.
//
// The job passes through opts.ProgressSteps checkpoints, one every
// opts.ProgressInterval. At each checkpoint we check if we've been asked to
// stop (ctx is done) and, if not, publish progress. Once the last checkpoint is
// passed the archive is built & stored regardless of any later cancel request.
func (c *Service) work(ctx context.Context, stop context.CancelFunc, id string, files []*structs.File, password string) {
	defer c.workers.Done()
	defer stop()

	le := c.log.WithField("job_id", id)
	c.metrics.running.Inc(1)
	defer c.metrics.running.Dec(1)

	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			c.cancelled(le, id)
			return
		}
		defer c.sem.Release(1)
	}

	steps := c.opts.ProgressSteps
	tick := time.NewTicker(c.opts.ProgressInterval)
	defer tick.Stop()

	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
		case <-tick.C:
		}
		if ctx.Err() != nil {
			c.cancelled(le, id)
			return
		}
		if step < steps {
			// nb. the last checkpoint publishes nothing; 100 is reserved for SUCCEEDED
			c.setProgress(le, id, stepProgress(step, steps))
		}
	}

	start := time.Now()
	data, err := archive.Build(files, password)
	c.metrics.build.UpdateSince(start)
	if err != nil {
		c.finish(le, id, structs.FAILED, fmt.Sprintf("failed to create archive: %v", err))
		return
	}

	// too late to cancel now, but we still want the archive written if the service is closing
	err = c.store.Put(context.WithoutCancel(ctx), id, data)
	if err != nil {
		c.finish(le, id, structs.FAILED, fmt.Sprintf("failed to store archive: %v", err))
		return
	}

	c.finish(le, id, structs.SUCCEEDED, "")
}

// stepProgress returns the percentage complete after the given step
func stepProgress(step, steps int) float64 {
	return float64(step) / float64(steps) * 100
}

// setProgress moves a running job's progress forward. Progress never goes backwards.
func (c *Service) setProgress(le *logrus.Entry, id string, progress float64) {
	err := c.reg.Mutate(id, func(rec *record) error {
		if structs.IsFinalStatus(rec.job.Status) {
			return fmt.Errorf("%w job is %s", errors.ErrInvalidState, rec.job.Status)
		}
		if progress <= rec.job.Progress {
			return nil
		}
		rec.job.Progress = progress
		rec.job.UpdatedAt = timeNow()
		return nil
	})
	if err != nil {
		le.WithError(err).Warn("failed to set progress")
		return
	}
	le.WithField("progress", progress).Debug("job progress")
}

// finish records a final status. A job only ever finishes once.
func (c *Service) finish(le *logrus.Entry, id string, status structs.Status, msg string) {
	var final structs.Job
	err := c.reg.Mutate(id, func(rec *record) error {
		if structs.IsFinalStatus(rec.job.Status) {
			return fmt.Errorf("%w job is already %s", errors.ErrInvalidState, rec.job.Status)
		}
		rec.job.Status = status
		rec.job.Error = msg
		if status == structs.SUCCEEDED {
			rec.job.Progress = 100
		}
		rec.job.UpdatedAt = timeNow()
		final = rec.job
		return nil
	})
	if err != nil {
		le.WithError(err).Error("failed to set final status")
		return
	}

	switch status {
	case structs.SUCCEEDED:
		c.metrics.succeeded.Inc(1)
		le.WithField("status", status).Info("job finished")
	default:
		c.metrics.failed.Inc(1)
		le.WithField("status", status).WithField("error", msg).Warn("job finished")
	}
	c.record(le, &final)
}

// cancelled drops a job that was asked to stop
func (c *Service) cancelled(le *logrus.Entry, id string) {
	job, ok := c.reg.Remove(id)
	if !ok {
		return
	}
	job.Status = structs.CANCELLED
	job.UpdatedAt = timeNow()

	c.metrics.cancelled.Inc(1)
	if job.CancelRequested {
		le.WithField("status", job.Status).Info("job cancelled")
	} else {
		le.WithField("status", job.Status).Info("job dropped, service closing")
	}
	c.record(le, job)
}

// record writes the final state of a job to the journal, if we have one
func (c *Service) record(le *logrus.Entry, job *structs.Job) {
	if c.jrnl == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	err := c.jrnl.Record(ctx, job)
	if err != nil {
		le.WithError(err).Error("failed to write journal")
	}
}
