package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// envFile is read, if present, before flags are parsed so that it can supply env vars
	envFile = ".env"
)

func main() {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load env file")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var parser = flags.NewParser(&struct{}{}, flags.Default)

	parser.AddCommand("api", docApi, docApi, &optsAPI{})
	parser.AddCommand("migrate", docMigrate, docMigrate, &optsMigrate{})
	parser.AddCommand("submit", docSubmit, docSubmit, &optsSubmit{})
	parser.AddCommand("progress", docProgress, docProgress, &optsProgress{})
	parser.AddCommand("cancel", docCancel, docCancel, &optsCancel{})
	parser.AddCommand("fetch", docFetch, docFetch, &optsFetch{})

	if _, err := parser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case *flags.Error:
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
