package common

const (
	// API_HEALTH reports if the server is up
	API_HEALTH = "/healthz"

	// API_JOBS is used to submit jobs
	API_JOBS = "/api/v1/jobs"

	// API_PROGRESS is used to poll one or all jobs
	API_PROGRESS = "/api/v1/progress"

	// API_CANCEL is used to ask a job to stop
	API_CANCEL = "/api/v1/jobs/{id}/cancel"

	// API_ARCHIVE is used to download a finished archive
	API_ARCHIVE = "/api/v1/jobs/{id}/archive"

	// API_METRICS dumps service metrics as JSON
	API_METRICS = "/debug/metrics"
)

const (
	// form fields of a job submission
	FieldArchiveName = "archive_name"
	FieldFiles       = "files"

	// query param of a progress request
	ParamJobID = "job_id"

	// ContentTypeZip is the content type archives are served with
	ContentTypeZip = "application/zip"

	// StatusStopping is returned when a job has been asked to cancel
	StatusStopping = "stopping"
)
