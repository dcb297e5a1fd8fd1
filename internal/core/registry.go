package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

// record is a job & the func that signals its worker to stop
type record struct {
	job  structs.Job
	stop context.CancelFunc
}

// Registry holds every job the service knows about.
//
// All access goes through a single lock which is never held for longer than it
// takes to copy a record; callers only ever receive copies.
type Registry struct {
	lock sync.Mutex
	jobs map[string]*record
}

func NewRegistry() *Registry {
	return &Registry{jobs: map[string]*record{}}
}

// Insert adds a new job. The ID must not already be in use.
func (r *Registry) Insert(job *structs.Job, stop context.CancelFunc) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.jobs[job.ID]; ok {
		return fmt.Errorf("%w job %s already exists", errors.ErrInternal, job.ID)
	}
	r.jobs[job.ID] = &record{job: *job, stop: stop}
	return nil
}

// Get returns a copy of the job with the given ID.
func (r *Registry) Get(id string) (*structs.Job, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w job %s", errors.ErrNotFound, id)
	}
	job := rec.job
	return &job, nil
}

// All returns copies of every job, in no particular order.
func (r *Registry) All() []*structs.Job {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]*structs.Job, 0, len(r.jobs))
	for _, rec := range r.jobs {
		job := rec.job
		out = append(out, &job)
	}
	return out
}

// Mutate applies fn to the record with the given ID.
//
// fn works on a copy; if it returns an error nothing is changed, otherwise the
// copy replaces the stored record.
func (r *Registry) Mutate(id string, fn func(rec *record) error) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("%w job %s", errors.ErrNotFound, id)
	}
	updated := *rec
	err := fn(&updated)
	if err != nil {
		return err
	}
	r.jobs[id] = &updated
	return nil
}

// Remove deletes a job & returns what it was, if it existed.
func (r *Registry) Remove(id string) (*structs.Job, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	rec, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	delete(r.jobs, id)
	job := rec.job
	return &job, true
}

// Len returns the number of jobs held.
func (r *Registry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.jobs)
}
