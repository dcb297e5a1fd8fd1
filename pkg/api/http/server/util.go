package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/voidshard/archivist/pkg/api/http/common"
	ie "github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

var (
	errmap map[int][]error = map[int][]error{
		http.StatusNotFound: []error{
			ie.ErrNotFound,
		},
		http.StatusBadRequest: []error{
			ie.ErrNoFiles,
			ie.ErrInvalidArg,
		},
		http.StatusRequestEntityTooLarge: []error{
			ie.ErrMaxExceeded,
		},
	}
)

// mapError returns the http status code for a given error, or
// http.StatusInternalServerError if the error is not recognised.
func mapError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for code, errs := range errmap {
		for _, e := range errs {
			if errors.Is(err, e) {
				return code
			}
		}
	}
	return http.StatusInternalServerError
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return common.CodeNotFound
	case http.StatusBadRequest:
		return common.CodeInvalidArg
	case http.StatusRequestEntityTooLarge:
		return common.CodeTooLarge
	default:
		return common.CodeInternal
	}
}

// unmarshalMultipart reads a job submission; an archive name and any number of files.
// Unknown fields are ignored.
func unmarshalMultipart(r *http.Request) (*structs.CreateJobRequest, error) {
	err := r.ParseMultipartForm(maxMemory)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w request body exceeds %d bytes", ie.ErrMaxExceeded, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w bad multipart form: %v", ie.ErrInvalidArg, err)
	}
	defer r.MultipartForm.RemoveAll()

	cjr := &structs.CreateJobRequest{Files: []*structs.File{}}
	if names := r.MultipartForm.Value[common.FieldArchiveName]; len(names) > 0 {
		cjr.ArchiveName = names[0]
	}

	for _, fh := range r.MultipartForm.File[common.FieldFiles] {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("%w reading file %s: %v", ie.ErrInvalidArg, fh.Filename, err)
		}
		cjr.Files = append(cjr.Files, &structs.File{Name: partFileName(fh), Data: data})
	}

	return cjr, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// partFileName returns the filename as the client sent it.
// multipart.FileHeader.Filename drops any directories, which we want to keep.
func partFileName(fh *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fh.Filename
}
