package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/voidshard/archivist/internal/utils"
	"github.com/voidshard/archivist/pkg/api"
	"github.com/voidshard/archivist/pkg/api/http/common"
	ie "github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

const (
	wait = 30 * time.Second

	// multipartOverhead is allowed on top of the max payload for part headers & boundaries
	multipartOverhead = 1 * 1024 * 1024

	// maxMemory is how much of a multipart form we keep in memory before spilling to disk
	maxMemory = 32 * 1024 * 1024
)

// Options for an HTTP server
type Options struct {
	// Addr to listen on, eg. localhost:9188
	Addr string

	// Cert and Key enable TLS when both are set
	Cert string
	Key  string

	// Debug adds per-request logging
	Debug bool

	// MaxPayloadBytes caps the total size of files in a single submission, 0 for no limit
	MaxPayloadBytes int64

	// Metrics is the registry served on /debug/metrics (default metrics.DefaultRegistry)
	Metrics metrics.Registry
}

type Server struct {
	opts       *Options
	svc        api.API
	log        *logrus.Entry
	reqs       metrics.Timer
	errs       metrics.Counter
	exit       chan os.Signal
	httpserver *http.Server
}

// Router returns the server's routes, with middleware, serving the given API.
func (s *Server) Router(svc api.API) http.Handler {
	s.svc = svc

	router := mux.NewRouter()
	router.HandleFunc(common.API_HEALTH, s.Health).Methods(http.MethodGet)
	router.HandleFunc(common.API_JOBS, s.createJob).Methods(http.MethodPost)
	router.HandleFunc(common.API_PROGRESS, s.Progress).Methods(http.MethodGet)
	router.HandleFunc(common.API_CANCEL, s.Cancel).Methods(http.MethodPatch)
	router.HandleFunc(common.API_ARCHIVE, s.Archive).Methods(http.MethodGet)
	router.HandleFunc(common.API_METRICS, s.Metrics).Methods(http.MethodGet)

	router.Use(s.timingMiddleware)
	if s.opts.Debug {
		s.log.Debug("debug enabled, adding per-request logging middleware")
		router.Use(s.loggingMiddleware)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.log),
		handlers.PrintRecoveryStack(s.opts.Debug),
	)
	return recovery(cors(router))
}

// ServeForever serves the API until interrupted or Close is called.
func (s *Server) ServeForever(svc api.API) error {
	s.httpserver = &http.Server{
		Handler:     s.Router(svc),
		Addr:        s.opts.Addr,
		ReadTimeout: 5 * time.Minute, // uploads can be large
		IdleTimeout: 2 * time.Minute,
	}

	tls := s.opts.Cert != "" || s.opts.Key != ""
	if tls {
		cfg, err := utils.TLSConfig("", s.opts.Cert, s.opts.Key)
		if err != nil {
			return err
		}
		s.httpserver.TLSConfig = cfg
	}

	errs := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{"addr": s.httpserver.Addr, "tls": tls}).Info("listening")
		var err error
		if tls {
			err = s.httpserver.ListenAndServeTLS("", "") // certs are in TLSConfig
		} else {
			err = s.httpserver.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	signal.Notify(s.exit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.exit)

	var err error
	select {
	case <-s.exit:
	case err = <-errs:
		s.log.WithError(err).Error("server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	s.httpserver.Shutdown(ctx)
	return err
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxPayloadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxPayloadBytes+multipartOverhead)
	}

	cjr, err := unmarshalMultipart(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.svc.Submit(cjr)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, resp)
}

func (s *Server) Progress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has(common.ParamJobID) {
		items, err := s.svc.AllProgress()
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJson(w, structs.NewJobsReport(items))
		return
	}

	id := q.Get(common.ParamJobID)
	if !utils.IsValidID(id) {
		s.writeError(w, fmt.Errorf("%w bad job id %q", ie.ErrInvalidArg, id))
		return
	}
	item, err := s.svc.Progress(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJson(w, structs.NewJobReport(item))
}

func (s *Server) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		s.writeError(w, fmt.Errorf("%w bad job id %q", ie.ErrInvalidArg, id))
		return
	}

	err := s.svc.Cancel(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, &common.CancelResponse{Status: common.StatusStopping})
}

func (s *Server) Archive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !utils.IsValidID(id) {
		s.writeError(w, fmt.Errorf("%w bad job id %q", ie.ErrInvalidArg, id))
		return
	}

	arc, err := s.svc.Archive(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", common.ContentTypeZip)
	w.Header().Set("Content-Length", strconv.Itoa(len(arc.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": arc.Name + ".zip",
	}))
	_, err = w.Write(arc.Data)
	if err != nil {
		s.log.WithError(err).WithField("job_id", id).Warn("failed to write archive")
	}
}

func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	metrics.WriteJSONOnce(s.opts.Metrics, w)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, map[string]bool{"ok": true})
}

func (s *Server) Close() error {
	s.exit <- os.Interrupt
	return nil
}

func (s *Server) writeJson(w http.ResponseWriter, obj interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(obj)
	if err != nil {
		s.log.WithError(err).Warn("failed to write response")
	}
}

// writeError writes an ErrorResponse with a status code matching the error.
// Internal errors are logged and reported generically.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.errs.Inc(1)
	status := mapError(err)
	resp := &common.ErrorResponse{Code: errorCode(status), Message: err.Error()}
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
		resp.Message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func NewServer(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry
	}
	return &Server{
		opts: opts,
		log:  logrus.WithField("component", "http"),
		reqs: metrics.GetOrRegisterTimer("http.requests", opts.Metrics),
		errs: metrics.GetOrRegisterCounter("http.errors", opts.Metrics),
		exit: make(chan os.Signal, 1),
	}
}

var _ api.Server = &Server{}
