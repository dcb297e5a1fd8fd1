package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/voidshard/archivist/internal/utils"
	"github.com/voidshard/archivist/pkg/archive"
	ie "github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/journal"
	"github.com/voidshard/archivist/pkg/storage"
	"github.com/voidshard/archivist/pkg/structs"
)

const (
	// defaults
	defProgressSteps    = 10
	defProgressInterval = 6 * time.Second

	journalTimeout = 10 * time.Second
)

var (
	timeNow = func() int64 { return time.Now().Unix() }
)

// Service accepts archive jobs, runs one worker routine per job & answers
// questions about them.
type Service struct {
	reg     *Registry
	store   storage.Storage
	jrnl    journal.Journal
	opts    *structs.Options
	sem     *semaphore.Weighted
	metrics *serviceMetrics
	log     *logrus.Entry

	// ctx is the parent of every job context; cancelled on Close
	ctx    context.Context
	cancel context.CancelFunc

	lock    sync.RWMutex
	closed  bool
	workers sync.WaitGroup
}

// NewService returns a new Service. The journal is optional (may be nil).
func NewService(store storage.Storage, jrnl journal.Journal, opts *structs.Options) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w storage is required", ie.ErrInvalidArg)
	}
	opts = withDefaults(opts)

	ctx, cancel := context.WithCancel(context.Background())
	me := &Service{
		reg:     NewRegistry(),
		store:   store,
		jrnl:    jrnl,
		opts:    opts,
		metrics: newServiceMetrics(opts.Metrics),
		log:     logrus.WithField("component", "core"),
		ctx:     ctx,
		cancel:  cancel,
	}
	if opts.MaxWorkers > 0 {
		me.sem = semaphore.NewWeighted(opts.MaxWorkers)
	}
	return me, nil
}

func withDefaults(in *structs.Options) *structs.Options {
	opts := &structs.Options{}
	if in != nil {
		*opts = *in
	}
	if opts.ProgressSteps <= 0 {
		opts.ProgressSteps = defProgressSteps
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = defProgressInterval
	}
	if opts.PasswordLength < archive.MinPasswordLength {
		opts.PasswordLength = archive.MinPasswordLength
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry
	}
	return opts
}

// Close stops all outstanding workers & waits for them to exit.
//
// Jobs that are still at a checkpoint are dropped as if cancelled; a job that
// is already building its archive is allowed to finish.
func (c *Service) Close() error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return nil
	}
	c.closed = true
	c.lock.Unlock()

	c.cancel()
	c.workers.Wait()

	errs := []error{c.store.Close()}
	if c.jrnl != nil {
		errs = append(errs, c.jrnl.Close())
	}
	return errors.Join(errs...)
}

// Submit validates & registers a new job, starts a worker for it and returns
// the new job's ID. It does not wait for the worker to do anything.
//
// The request's Files slice is copied, the files themselves are not; callers
// must not modify them while the job is RUNNING.
func (c *Service) Submit(cjr *structs.CreateJobRequest) (*structs.CreateJobResponse, error) {
	err := validateCreateJobRequest(cjr, c.opts.MaxPayloadBytes)
	if err != nil {
		return nil, err
	}

	password, err := archive.NewPassword(c.opts.PasswordLength)
	if err != nil {
		c.log.WithError(err).Error("failed to generate password")
		return nil, err
	}

	name := cjr.ArchiveName
	if name == "" {
		name = defArchiveName
	}
	now := timeNow()
	job := &structs.Job{
		ID:          utils.NewRandomID(),
		Status:      structs.RUNNING,
		ArchiveName: name,
		Password:    password,
		Files:       len(cjr.Files),
		Size:        cjr.Size(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// the caller may reuse their slice once we return, but the File values are
	// shared with the worker; their contents must not change until the job ends
	files := make([]*structs.File, len(cjr.Files))
	copy(files, cjr.Files)

	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.closed {
		return nil, fmt.Errorf("%w service is closed", ie.ErrInvalidState)
	}

	ctx, stop := context.WithCancel(c.ctx)
	err = c.reg.Insert(job, stop)
	if err != nil {
		stop()
		c.log.WithError(err).WithField("job_id", job.ID).Error("failed to register job")
		return nil, err
	}

	c.metrics.submitted.Inc(1)
	c.log.WithFields(logrus.Fields{
		"job_id": job.ID,
		"files":  job.Files,
		"size":   job.Size,
	}).Info("job submitted")

	c.workers.Add(1)
	go c.work(ctx, stop, job.ID, files, password)

	return &structs.CreateJobResponse{JobID: job.ID}, nil
}

// Progress returns the state of a single job.
func (c *Service) Progress(id string) (*structs.Progress, error) {
	job, err := c.reg.Get(id)
	if err != nil {
		return nil, err
	}
	return job.ToProgress(), nil
}

// AllProgress returns the state of every job we know about, oldest first.
func (c *Service) AllProgress() ([]*structs.Progress, error) {
	jobs := c.reg.All()
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt == jobs[j].CreatedAt {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt < jobs[j].CreatedAt
	})
	out := make([]*structs.Progress, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ToProgress())
	}
	return out, nil
}

// Cancel asks the worker of a running job to stop at its next checkpoint.
//
// Cancelling a job more than once, or a job that has already finished, is a no-op.
func (c *Service) Cancel(id string) error {
	requested := false
	err := c.reg.Mutate(id, func(rec *record) error {
		if structs.IsFinalStatus(rec.job.Status) || rec.job.CancelRequested {
			return nil
		}
		rec.job.CancelRequested = true
		rec.job.UpdatedAt = timeNow()
		if rec.stop != nil {
			rec.stop()
		}
		requested = true
		return nil
	})
	if requested {
		c.log.WithField("job_id", id).Info("job cancel requested")
	}
	return err
}

// Archive returns the finished archive of a job that SUCCEEDED.
func (c *Service) Archive(ctx context.Context, id string) (*structs.Archive, error) {
	job, err := c.reg.Get(id)
	if err != nil {
		return nil, err
	}
	if job.Status != structs.SUCCEEDED {
		return nil, fmt.Errorf("%w archive for job %s (status %s)", ie.ErrNotFound, id, job.Status)
	}

	data, err := c.store.Get(ctx, id)
	if errors.Is(err, ie.ErrNotFound) {
		c.log.WithField("job_id", id).Warn("archive missing from storage")
		return nil, err
	} else if err != nil {
		c.log.WithError(err).WithField("job_id", id).Error("failed to read archive")
		return nil, fmt.Errorf("%w reading archive %s", ie.ErrInternal, id)
	}

	return &structs.Archive{Name: job.ArchiveName, Data: data}, nil
}
