package structs

// File is a single named file to be added to an archive.
type File struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

type CreateJobRequest struct {
	// ArchiveName is the logical name of the output archive.
	// Defaults to "archive" if not given.
	ArchiveName string `json:"archive_name"`

	// Files are written to the archive in the given order.
	// Required.
	Files []*File `json:"files"`
}

// Size returns the total number of content bytes in the request.
func (c *CreateJobRequest) Size() int64 {
	var total int64
	for _, f := range c.Files {
		if f == nil {
			continue
		}
		total += int64(len(f.Data))
	}
	return total
}

type CreateJobResponse struct {
	JobID string `json:"job_id"`
}
