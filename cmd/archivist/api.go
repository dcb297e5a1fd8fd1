package main

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/voidshard/archivist/pkg/api"
	"github.com/voidshard/archivist/pkg/api/http/server"
	"github.com/voidshard/archivist/pkg/journal"
)

const (
	docApi = `Run the API server`
)

type optsAPI struct {
	optsGeneral
	optsStorage
	optsDatabase

	Addr    string `long:"addr" env:"ADDR" description:"Address to bind to" default:"localhost:9188"`
	TLSCert string `long:"cert" env:"CERT" description:"Path to TLS certificate"`
	TLSKey  string `long:"key" env:"KEY" description:"Path to TLS key"`

	MaxPayload       string        `long:"max-payload" env:"MAX_PAYLOAD" default:"100mb" description:"Largest total upload accepted per job"`
	MaxWorkers       int64         `long:"max-workers" env:"MAX_WORKERS" default:"0" description:"Max jobs building at once, 0 for no limit"`
	ProgressSteps    int           `long:"progress-steps" env:"PROGRESS_STEPS" default:"10" description:"Number of progress checkpoints per job"`
	ProgressInterval time.Duration `long:"progress-interval" env:"PROGRESS_INTERVAL" default:"6s" description:"Time between progress checkpoints"`
}

func (c *optsAPI) Execute(args []string) error {
	// This runs the job service in process & serves it over HTTP.
	// The journal is only used when a database URL is given.
	c.setupLogging()
	le := logrus.WithField("component", "main")

	maxPayload, err := units.RAMInBytes(c.MaxPayload)
	if err != nil {
		return fmt.Errorf("bad max payload %q: %w", c.MaxPayload, err)
	}

	store, err := c.storage()
	if err != nil {
		return err
	}

	var jrnl journal.Journal
	if c.DatabaseURL != "" {
		jrnl, err = journal.NewPostgres(c.options())
		if err != nil {
			store.Close()
			return err
		}
		le.Info("journal enabled")
	}

	opts := api.OptionsDefault()
	opts.MaxPayloadBytes = maxPayload
	opts.MaxWorkers = c.MaxWorkers
	opts.ProgressSteps = c.ProgressSteps
	opts.ProgressInterval = c.ProgressInterval
	opts.Metrics = metrics.DefaultRegistry

	svc, err := api.New(store, jrnl, opts)
	if err != nil {
		return err
	}
	defer svc.Close()

	le.WithFields(logrus.Fields{
		"max_payload":       maxPayload,
		"max_workers":       c.MaxWorkers,
		"progress_steps":    c.ProgressSteps,
		"progress_interval": c.ProgressInterval,
	}).Info("starting")

	s := server.NewServer(&server.Options{
		Addr:            c.Addr,
		Cert:            c.TLSCert,
		Key:             c.TLSKey,
		Debug:           c.Debug,
		MaxPayloadBytes: maxPayload,
		Metrics:         opts.Metrics,
	})
	return s.ServeForever(svc)
}
