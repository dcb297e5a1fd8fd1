package main

import (
	"github.com/sirupsen/logrus"

	"github.com/voidshard/archivist/internal/utils"
	"github.com/voidshard/archivist/pkg/api/http/client"
	"github.com/voidshard/archivist/pkg/journal"
	"github.com/voidshard/archivist/pkg/storage"
)

type optsGeneral struct {
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func (o *optsGeneral) setupLogging() {
	if o.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

type optsStorage struct {
	ArchiveDir string `long:"archive-dir" env:"ARCHIVE_DIR" default:"/tmp" description:"Directory to write archives to (unless using S3)"`

	S3Endpoint  string `long:"s3-endpoint" env:"S3_ENDPOINT" description:"S3 host:port"`
	S3Bucket    string `long:"s3-bucket" env:"S3_BUCKET" description:"S3 bucket to write archives to, enables S3 storage"`
	S3Prefix    string `long:"s3-prefix" env:"S3_PREFIX" description:"Prefix for S3 object keys"`
	S3AccessKey string `long:"s3-access-key" env:"S3_ACCESS_KEY" description:"S3 access key"`
	S3SecretKey string `long:"s3-secret-key" env:"S3_SECRET_KEY" description:"S3 secret key"`
	S3Secure    bool   `long:"s3-secure" env:"S3_SECURE" description:"Use TLS to talk to S3"`
}

func (o *optsStorage) storage() (storage.Storage, error) {
	return storage.New(&storage.Options{
		Dir:       o.ArchiveDir,
		Endpoint:  o.S3Endpoint,
		Bucket:    o.S3Bucket,
		Prefix:    o.S3Prefix,
		AccessKey: o.S3AccessKey,
		SecretKey: o.S3SecretKey,
		Secure:    o.S3Secure,
	})
}

type optsDatabase struct {
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"Database connection string"`
}

func (o *optsDatabase) options() *journal.Options {
	return &journal.Options{URL: o.DatabaseURL}
}

type optsClient struct {
	optsGeneral

	Server string `long:"server" env:"ARCHIVIST_SERVER" default:"http://localhost:9188" description:"Address of the archivist server"`
	CACert string `long:"ca-cert" env:"CA_CERT" description:"Path to a CA certificate to trust"`
}

func (o *optsClient) client() (*client.Client, error) {
	o.setupLogging()
	tlsCfg, err := utils.TLSConfig(o.CACert, "", "")
	if err != nil {
		return nil, err
	}
	return client.New(o.Server, tlsCfg)
}
