package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/voidshard/archivist/pkg/journal"
)

const (
	docMigrate = `Apply journal database migrations`
)

type optsMigrate struct {
	optsGeneral
	optsDatabase
}

func (c *optsMigrate) Execute(args []string) error {
	c.setupLogging()
	if c.DatabaseURL == "" {
		return fmt.Errorf("--database-url is required")
	}

	err := journal.Migrate(c.options())
	if err != nil {
		return err
	}

	logrus.WithField("component", "main").Info("migrations applied")
	return nil
}
