package client

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/voidshard/archivist/pkg/api"
	"github.com/voidshard/archivist/pkg/api/http/common"
	"github.com/voidshard/archivist/pkg/structs"
)

const (
	timeout = 5 * time.Minute
)

type Client struct {
	url  *url.URL
	http *http.Client
}

// New returns a client for the server at the given address, eg. http://localhost:9188.
// tlsCfg may be nil.
func New(address string, tlsCfg *tls.Config) (*Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	return &Client{url: u, http: &http.Client{Transport: transport, Timeout: timeout}}, nil
}

func (c *Client) Submit(cjr *structs.CreateJobRequest) (*structs.CreateJobResponse, error) {
	addr := c.addr(common.API_JOBS)
	var out structs.CreateJobResponse
	return &out, c.multipartPost(addr, cjr, &out)
}

func (c *Client) Progress(id string) (*structs.Progress, error) {
	addr := c.addr(common.API_PROGRESS)
	values := addr.Query()
	values.Set(common.ParamJobID, id)
	addr.RawQuery = values.Encode()

	var out structs.ProgressReport
	err := c.genericGet(context.Background(), addr, &out)
	if err != nil {
		return nil, err
	}
	if out.Kind != structs.KindJob || out.Job == nil {
		return nil, errUnexpectedReport(out.Kind)
	}
	return out.Job, nil
}

func (c *Client) AllProgress() ([]*structs.Progress, error) {
	addr := c.addr(common.API_PROGRESS)
	var out structs.ProgressReport
	err := c.genericGet(context.Background(), addr, &out)
	if err != nil {
		return nil, err
	}
	if out.Kind != structs.KindJobs {
		return nil, errUnexpectedReport(out.Kind)
	}
	if out.Jobs == nil {
		out.Jobs = []*structs.Progress{}
	}
	return out.Jobs, nil
}

func (c *Client) Cancel(id string) error {
	addr := c.addr(common.CancelPath(url.PathEscape(id)))
	var out common.CancelResponse
	return c.genericPatch(addr, &out)
}

func (c *Client) Archive(ctx context.Context, id string) (*structs.Archive, error) {
	addr := c.addr(common.ArchivePath(url.PathEscape(id)))
	return c.download(ctx, addr)
}

// Close drops any idle connections
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) addr(path string) *url.URL {
	return &url.URL{Scheme: c.url.Scheme, Host: c.url.Host, Path: path}
}

var _ api.API = &Client{}
