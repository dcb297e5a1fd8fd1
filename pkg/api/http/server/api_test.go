package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/voidshard/archivist/internal/mocks/pkg/api_mock"
	"github.com/voidshard/archivist/internal/utils"
	"github.com/voidshard/archivist/pkg/api/http/common"
	"github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

func newTestRouter(t *testing.T, opts *Options) (http.Handler, *api_mock.MockAPI) {
	svc := api_mock.NewMockAPI(gomock.NewController(t))
	if opts == nil {
		opts = &Options{}
	}
	opts.Metrics = metrics.NewRegistry()
	s := NewServer(opts)
	return s.Router(svc), svc
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartRequest(t *testing.T, name string, files ...*structs.File) *http.Request {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	assert.Nil(t, mw.WriteField(common.FieldArchiveName, name))
	for _, f := range files {
		part, err := mw.CreateFormFile(common.FieldFiles, f.Name)
		assert.Nil(t, err)
		_, err = part.Write(f.Data)
		assert.Nil(t, err)
	}
	assert.Nil(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, common.API_JOBS, buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) *common.ErrorResponse {
	out := &common.ErrorResponse{}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), out))
	return out
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_HEALTH, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestCreateJob(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	id := utils.NewID(1)

	svc.EXPECT().Submit(gomock.Any()).DoAndReturn(func(cjr *structs.CreateJobRequest) (*structs.CreateJobResponse, error) {
		assert.Equal(t, "docs", cjr.ArchiveName)
		assert.Equal(t, 3, len(cjr.Files))
		assert.Equal(t, "a.txt", cjr.Files[0].Name)
		assert.Equal(t, []byte("hello"), cjr.Files[0].Data)
		assert.Equal(t, "b.txt", cjr.Files[1].Name)
		assert.Equal(t, []byte("world"), cjr.Files[1].Data)
		assert.Equal(t, "dir/c.txt", cjr.Files[2].Name)
		return &structs.CreateJobResponse{JobID: id}, nil
	})

	rec := serve(h, multipartRequest(t, "docs",
		&structs.File{Name: "a.txt", Data: []byte("hello")},
		&structs.File{Name: "b.txt", Data: []byte("world")},
		&structs.File{Name: "dir/c.txt", Data: []byte("!")},
	))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"job_id":%q}`, id), rec.Body.String())
}

func TestCreateJobErrors(t *testing.T) {
	cases := []struct {
		Name   string
		Err    error
		Status int
		Code   string
	}{
		{"NoFiles", errors.ErrNoFiles, http.StatusBadRequest, common.CodeInvalidArg},
		{"InvalidArg", fmt.Errorf("%w blank name", errors.ErrInvalidArg), http.StatusBadRequest, common.CodeInvalidArg},
		{"TooLarge", fmt.Errorf("%w payload", errors.ErrMaxExceeded), http.StatusRequestEntityTooLarge, common.CodeTooLarge},
		{"Internal", fmt.Errorf("%w oops", errors.ErrInternal), http.StatusInternalServerError, common.CodeInternal},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			h, svc := newTestRouter(t, nil)
			svc.EXPECT().Submit(gomock.Any()).Return(nil, c.Err)

			rec := serve(h, multipartRequest(t, "x"))

			assert.Equal(t, c.Status, rec.Code)
			assert.Equal(t, c.Code, decodeErrorResponse(t, rec).Code)
		})
	}
}

func TestCreateJobNotMultipart(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, common.API_JOBS, bytes.NewBufferString(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, common.CodeInvalidArg, decodeErrorResponse(t, rec).Code)
}

func TestCreateJobBodyTooLarge(t *testing.T) {
	h, _ := newTestRouter(t, &Options{MaxPayloadBytes: 10})

	rec := serve(h, multipartRequest(t, "x",
		&structs.File{Name: "big", Data: make([]byte, multipartOverhead+100)},
	))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, common.CodeTooLarge, decodeErrorResponse(t, rec).Code)
}

func TestProgressOne(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	id := utils.NewID(2)
	svc.EXPECT().Progress(id).Return(&structs.Progress{JobID: id, Status: structs.RUNNING, Progress: 30}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_PROGRESS+"?job_id="+id, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	out := &structs.ProgressReport{}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), out))
	assert.Equal(t, structs.KindJob, out.Kind)
	assert.Equal(t, id, out.Job.JobID)
	assert.Equal(t, structs.RUNNING, out.Job.Status)
	assert.Equal(t, float64(30), out.Job.Progress)
	assert.Nil(t, out.Jobs)
}

func TestProgressAll(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	svc.EXPECT().AllProgress().Return([]*structs.Progress{
		{JobID: utils.NewID(1), Status: structs.SUCCEEDED, Progress: 100},
		{JobID: utils.NewID(2), Status: structs.FAILED, Error: "failed to create archive: x"},
	}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_PROGRESS, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	out := &structs.ProgressReport{}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), out))
	assert.Equal(t, structs.KindJobs, out.Kind)
	assert.Nil(t, out.Job)
	assert.Equal(t, 2, len(out.Jobs))
	assert.Equal(t, "failed to create archive: x", out.Jobs[1].Error)
}

func TestProgressAllEmpty(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	svc.EXPECT().AllProgress().Return([]*structs.Progress{}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_PROGRESS, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"kind":"jobs"}`, rec.Body.String())
}

func TestProgressErrors(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	id := utils.NewID(3)
	svc.EXPECT().Progress(id).Return(nil, errors.ErrNotFound)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_PROGRESS+"?job_id="+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, common.CodeNotFound, decodeErrorResponse(t, rec).Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, common.API_PROGRESS+"?job_id=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancel(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	id := utils.NewID(4)
	svc.EXPECT().Cancel(id).Return(nil)

	rec := serve(h, httptest.NewRequest(http.MethodPatch, common.CancelPath(id), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"stopping"}`, rec.Body.String())
}

func TestCancelNotFound(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	id := utils.NewID(4)
	svc.EXPECT().Cancel(id).Return(fmt.Errorf("%w job %s", errors.ErrNotFound, id))

	rec := serve(h, httptest.NewRequest(http.MethodPatch, common.CancelPath(id), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelWrongMethod(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.CancelPath(utils.NewID(4)), nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestArchive(t *testing.T) {
	h, svc := newTestRouter(t, nil)
	id := utils.NewID(5)
	svc.EXPECT().Archive(gomock.Any(), id).Return(&structs.Archive{Name: "docs", Data: []byte("PK-data")}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.ArchivePath(id), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, common.ContentTypeZip, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=docs.zip`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "7", rec.Header().Get("Content-Length"))
	assert.Equal(t, []byte("PK-data"), rec.Body.Bytes())
}

func TestArchiveErrors(t *testing.T) {
	cases := []struct {
		Name    string
		Err     error
		Status  int
		Message string
	}{
		{"NotFound", fmt.Errorf("%w archive", errors.ErrNotFound), http.StatusNotFound, "not found archive"},
		{"Internal", fmt.Errorf("%w disk on fire", errors.ErrInternal), http.StatusInternalServerError, "internal error"},
		{"Unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal error"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			h, svc := newTestRouter(t, nil)
			id := utils.NewID(6)
			svc.EXPECT().Archive(gomock.Any(), id).Return(nil, c.Err)

			rec := serve(h, httptest.NewRequest(http.MethodGet, common.ArchivePath(id), nil))

			assert.Equal(t, c.Status, rec.Code)
			assert.Equal(t, c.Message, decodeErrorResponse(t, rec).Message)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	serve(h, httptest.NewRequest(http.MethodGet, common.API_HEALTH, nil))
	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_METRICS, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	out := map[string]interface{}{}
	assert.Nil(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out, "http.requests")
	assert.Contains(t, out, "http.errors")
}

func TestCORS(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, common.API_HEALTH, nil)
	req.Header.Set("Origin", "http://example.com")

	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	h, svc := newTestRouter(t, &Options{Debug: true})
	svc.EXPECT().AllProgress().DoAndReturn(func() ([]*structs.Progress, error) {
		panic("boom")
	})

	rec := serve(h, httptest.NewRequest(http.MethodGet, common.API_PROGRESS, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		Name   string
		Err    error
		Expect int
	}{
		{"Nil", nil, http.StatusOK},
		{"NotFound", errors.ErrNotFound, http.StatusNotFound},
		{"WrappedNotFound", fmt.Errorf("%w job x", errors.ErrNotFound), http.StatusNotFound},
		{"NoFiles", errors.ErrNoFiles, http.StatusBadRequest},
		{"InvalidArg", errors.ErrInvalidArg, http.StatusBadRequest},
		{"MaxExceeded", errors.ErrMaxExceeded, http.StatusRequestEntityTooLarge},
		{"InvalidState", errors.ErrInvalidState, http.StatusInternalServerError},
		{"Build", errors.ErrBuild, http.StatusInternalServerError},
		{"Other", fmt.Errorf("what"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, mapError(c.Err))
		})
	}
}

func TestServeForeverClose(t *testing.T) {
	svc := api_mock.NewMockAPI(gomock.NewController(t))
	s := NewServer(&Options{Addr: "127.0.0.1:0", Metrics: metrics.NewRegistry()})

	assert.Nil(t, s.Close()) // queued; ServeForever returns as soon as it is up

	err := s.ServeForever(svc)

	assert.Nil(t, err)
}

func TestServeForeverBadTLS(t *testing.T) {
	svc := api_mock.NewMockAPI(gomock.NewController(t))
	s := NewServer(&Options{Addr: "127.0.0.1:0", Cert: "cert.pem", Metrics: metrics.NewRegistry()})

	err := s.ServeForever(svc)

	assert.NotNil(t, err)
}
