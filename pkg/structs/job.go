package structs

// Job is the record of a single archive request, from submission to some final state.
type Job struct {
	// ID is a unique identifier for this job
	ID string `json:"id"`

	// Status is the current status of this job
	Status Status `json:"status"`

	// Progress is a percentage [0, 100]. It only increases while the job is RUNNING
	// and reaches 100 only when the job SUCCEEDED.
	Progress float64 `json:"progress"`

	// Error describes why the job FAILED
	Error string `json:"error,omitempty"`

	// ArchiveName is the name the caller asked for the resulting archive
	ArchiveName string `json:"archive_name"`

	// Password the archive is encrypted with. Never serialized.
	Password string `json:"-"`

	// CancelRequested is set (once) when someone asks us to stop this job.
	// The worker honours it at its next checkpoint.
	CancelRequested bool `json:"-"`

	// Files is the number of entries in the archive
	Files int `json:"files"`

	// Size is the sum of all file contents, in bytes
	Size int64 `json:"size"`

	// CreatedAt is the time this job was created unix time in seconds
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the time this job was last updated unix time in seconds
	UpdatedAt int64 `json:"updated_at"`
}

// ToProgress returns the public view of a job.
func (j *Job) ToProgress() *Progress {
	return &Progress{
		JobID:       j.ID,
		Status:      j.Status,
		Progress:    j.Progress,
		Error:       j.Error,
		ArchiveName: j.ArchiveName,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
