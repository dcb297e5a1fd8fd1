package journal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voidshard/archivist/pkg/structs"
)

const (
	tableJobs = "archive_jobs"
)

// Postgres is a journal that writes to postgres.
type Postgres struct {
	opts *Options
	pool *pgxpool.Pool
}

// NewPostgres returns a new Postgres journal. The schema is expected to exist
// already (see Migrate).
func NewPostgres(opts *Options) (*Postgres, error) {
	url := opts.expandURL()
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, opts: opts}, nil
}

// Close shuts down the database connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Record upserts the final state of a job.
func (p *Postgres) Record(ctx context.Context, job *structs.Job) error {
	vals, args := toJobSqlArgs(1, job, timeNow())
	qstr := fmt.Sprintf(
		`INSERT INTO %s (id, archive_name, status, error, files, size, created_at, finished_at) VALUES %s
		ON CONFLICT (id) DO UPDATE SET status=EXCLUDED.status, error=EXCLUDED.error, finished_at=EXCLUDED.finished_at;`,
		tableJobs,
		vals,
	)
	_, err := p.pool.Exec(ctx, qstr, args...)
	return err
}

// expandURL substitutes credentials from the environment into the URL
func (o *Options) expandURL() string {
	o.setDefaults()
	url := strings.Replace(o.URL, "$"+o.UsernameEnvVar, os.Getenv(o.UsernameEnvVar), 1)
	return strings.Replace(url, "$"+o.PasswordEnvVar, os.Getenv(o.PasswordEnvVar), 1)
}

// toJobSqlArgs converts a job into a SQL values string & args (for an insert).
// Note that the password is deliberately not one of them.
func toJobSqlArgs(offset int, j *structs.Job, finishedAt int64) (string, []interface{}) {
	vals := []string{}
	for i := offset; i < 8+offset; i++ {
		vals = append(vals, fmt.Sprintf("$%d", i))
	}
	return fmt.Sprintf("(%s)", strings.Join(vals, ", ")), []interface{}{
		j.ID,
		j.ArchiveName,
		string(j.Status),
		j.Error,
		j.Files,
		j.Size,
		j.CreatedAt,
		finishedAt,
	}
}

// timeNow returns the current time in unix seconds
func timeNow() int64 {
	return time.Now().Unix()
}
