package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/voidshard/archivist/pkg/api/http/common"
	"github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

// multipartPost is a helper to POST a job submission as a multipart form and unmarshal the response
func (c *Client) multipartPost(addr *url.URL, cjr *structs.CreateJobRequest, out interface{}) error {
	if cjr == nil {
		return errors.ErrNoFiles
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	err := mw.WriteField(common.FieldArchiveName, cjr.ArchiveName)
	if err != nil {
		return err
	}
	for _, f := range cjr.Files {
		if f == nil {
			return fmt.Errorf("%w nil file", errors.ErrInvalidArg)
		}
		part, err := mw.CreateFormFile(common.FieldFiles, f.Name)
		if err != nil {
			return err
		}
		_, err = part.Write(f.Data)
		if err != nil {
			return err
		}
	}
	err = mw.Close()
	if err != nil {
		return err
	}

	resp, err := c.http.Post(addr.String(), mw.FormDataContentType(), buf)
	if err != nil {
		return err
	}
	return readJson(resp, out)
}

// genericPatch is a helper to PATCH a URL and unmarshal the response
func (c *Client) genericPatch(addr *url.URL, out interface{}) error {
	req, err := http.NewRequest(http.MethodPatch, addr.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return readJson(resp, out)
}

// genericGet is a helper to GET data from a given URL and unmarshal the response.
// Implies the Query string is already set, if needed.
func (c *Client) genericGet(ctx context.Context, addr *url.URL, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return readJson(resp, out)
}

// download fetches an archive, taking its name from the Content-Disposition header
func (c *Client) download(ctx context.Context, addr *url.URL) (*structs.Archive, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	return &structs.Archive{Name: archiveName(resp.Header.Get("Content-Disposition")), Data: body}, nil
}

func readJson(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, body)
	}

	return json.Unmarshal(body, out)
}

// decodeError turns an error response back into one of our errors, so callers
// can check with errors.Is as if they were talking to the service directly.
func decodeError(status int, body []byte) error {
	msg := string(body)
	er := &common.ErrorResponse{}
	if json.Unmarshal(body, er) == nil && er.Message != "" {
		msg = er.Message
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w %s", errors.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w %s", errors.ErrInvalidArg, msg)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w %s", errors.ErrMaxExceeded, msg)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w %s", errors.ErrInternal, msg)
	}
	return fmt.Errorf("bad status code %d, returned %s", status, msg)
}

// archiveName returns the name of an archive, without its extension
func archiveName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(params["filename"], ".zip")
}

func errUnexpectedReport(kind structs.ProgressKind) error {
	return fmt.Errorf("%w unexpected progress report kind %q", errors.ErrInternal, kind)
}
