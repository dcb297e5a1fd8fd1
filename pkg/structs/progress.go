package structs

// ProgressKind tells which field of a ProgressReport is set.
type ProgressKind string

const (
	// KindJob is a report on a single job
	KindJob ProgressKind = "job"

	// KindJobs is a report on every known job
	KindJobs ProgressKind = "jobs"
)

// Progress is what a polling client gets to see about a job.
type Progress struct {
	JobID       string  `json:"job_id"`
	Status      Status  `json:"status"`
	Progress    float64 `json:"progress"`
	Error       string  `json:"error,omitempty"`
	ArchiveName string  `json:"archive_name"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// ProgressReport holds either a single job (Kind == KindJob) or all jobs (Kind == KindJobs).
type ProgressReport struct {
	Kind ProgressKind `json:"kind"`
	Job  *Progress    `json:"job,omitempty"`
	Jobs []*Progress  `json:"jobs,omitempty"`
}

func NewJobReport(p *Progress) *ProgressReport {
	return &ProgressReport{Kind: KindJob, Job: p}
}

func NewJobsReport(ps []*Progress) *ProgressReport {
	if ps == nil {
		ps = []*Progress{}
	}
	return &ProgressReport{Kind: KindJobs, Jobs: ps}
}
