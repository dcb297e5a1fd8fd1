package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/voidshard/archivist/pkg/archive"
	"github.com/voidshard/archivist/pkg/structs"
)

const (
	docSubmit   = `Submit files to be archived`
	docProgress = `Show the progress of one or all jobs`
	docCancel   = `Cancel a running job`
	docFetch    = `Download a finished archive`
)

type optsSubmit struct {
	optsClient

	Name string `long:"name" short:"n" description:"Name of the archive"`

	Args struct {
		Files []string `positional-arg-name:"file" required:"1" description:"Files to archive"`
	} `positional-args:"yes"`
}

func (c *optsSubmit) Execute(args []string) error {
	cli, err := c.client()
	if err != nil {
		return err
	}

	cjr := &structs.CreateJobRequest{ArchiveName: c.Name, Files: []*structs.File{}}
	for _, path := range c.Args.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cjr.Files = append(cjr.Files, &structs.File{Name: filepath.Base(path), Data: data})
	}

	resp, err := cli.Submit(cjr)
	if err != nil {
		return err
	}
	fmt.Println(resp.JobID)
	return nil
}

type optsProgress struct {
	optsClient

	ID string `long:"id" description:"Job ID, all jobs if not given"`
}

func (c *optsProgress) Execute(args []string) error {
	cli, err := c.client()
	if err != nil {
		return err
	}

	var report *structs.ProgressReport
	if c.ID == "" {
		items, err := cli.AllProgress()
		if err != nil {
			return err
		}
		report = structs.NewJobsReport(items)
	} else {
		item, err := cli.Progress(c.ID)
		if err != nil {
			return err
		}
		report = structs.NewJobReport(item)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type optsCancel struct {
	optsClient

	ID string `long:"id" required:"true" description:"Job ID"`
}

func (c *optsCancel) Execute(args []string) error {
	cli, err := c.client()
	if err != nil {
		return err
	}
	err = cli.Cancel(c.ID)
	if err != nil {
		return err
	}
	fmt.Println("stopping")
	return nil
}

type optsFetch struct {
	optsClient

	ID  string `long:"id" required:"true" description:"Job ID"`
	Out string `long:"out" short:"o" default:"." description:"Directory to write to"`

	Extract  bool   `long:"extract" description:"Decrypt & unpack the archive instead of saving the zip"`
	Password string `long:"password" env:"ARCHIVE_PASSWORD" description:"Archive password, needed with --extract"`
}

func (c *optsFetch) Execute(args []string) error {
	cli, err := c.client()
	if err != nil {
		return err
	}

	arc, err := cli.Archive(context.Background(), c.ID)
	if err != nil {
		return err
	}
	le := logrus.WithFields(logrus.Fields{"job_id": c.ID, "component": "main"})

	if !c.Extract {
		path := filepath.Join(c.Out, arc.Name+".zip")
		le.WithField("path", path).Debug("writing archive")
		return os.WriteFile(path, arc.Data, 0644)
	}

	files, err := archive.Extract(arc.Data, c.Password)
	if err != nil {
		return err
	}
	for _, f := range files {
		if !filepath.IsLocal(f.Name) {
			le.WithField("name", f.Name).Warn("skipping file with unsafe name")
			continue
		}
		path := filepath.Join(c.Out, f.Name)
		err = os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return err
		}
		le.WithField("path", path).Debug("writing file")
		err = os.WriteFile(path, f.Data, 0644)
		if err != nil {
			return err
		}
	}
	return nil
}
