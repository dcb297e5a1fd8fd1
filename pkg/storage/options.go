package storage

const (
	defaultDir       = "/tmp"
	defaultExtension = ".zip"
)

// Options are options for archive storage.
//
// If Bucket is set archives are written to S3 (or anything S3 compatible),
// otherwise they're written to Dir on local disk.
type Options struct {
	// Dir is the local directory archives are written to. Defaults to "/tmp".
	Dir string

	// Endpoint is the S3 host:port
	Endpoint string

	// Bucket to write archives to
	Bucket string

	// Prefix is prepended to all object keys (eg. "archives/")
	Prefix string

	// AccessKey & SecretKey are S3 credentials
	AccessKey string
	SecretKey string

	// Secure enables TLS to the S3 endpoint
	Secure bool
}

func (o *Options) setDefaults() {
	if o.Dir == "" {
		o.Dir = defaultDir
	}
}

// New returns the storage described by the given options.
func New(opts *Options) (Storage, error) {
	opts.setDefaults()
	var (
		store Storage
		err   error
	)
	if opts.Bucket != "" {
		store, err = NewS3(opts)
	} else {
		store, err = NewLocal(opts.Dir)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// fileName returns the name an archive for the given job is stored under.
func fileName(id string) string {
	return id + defaultExtension
}
