// Package archive builds password protected zip archives.
//
// Entries are Deflate compressed & AES-256 encrypted (WinZip AE-2), which most
// desktop tools (7-Zip, WinZip, macOS Archive Utility via Keka etc) can open.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yeka/zip"

	"github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

const (
	entryMode os.FileMode = 0755
)

// Build returns an encrypted zip containing the given files, in order.
//
// Duplicate file names are not merged; each becomes its own entry.
func Build(files []*structs.File, password string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	err := Write(buf, files, password)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams an encrypted zip containing the given files to w.
//
// If an error is returned the data written to w is not a valid archive.
func Write(w io.Writer, files []*structs.File, password string) error {
	if password == "" {
		return fmt.Errorf("%w: %w password is required", errors.ErrBuild, errors.ErrInvalidArg)
	}

	sw := &stickyWriter{w: w}
	zw := zip.NewWriter(sw)
	for _, f := range files {
		if f == nil {
			continue
		}
		entry, err := zw.CreateHeader(newHeader(f.Name, password))
		if err != nil {
			return fmt.Errorf("%w: creating entry %s: %v", errors.ErrBuild, f.Name, err)
		}
		_, err = entry.Write(f.Data)
		if err != nil {
			return fmt.Errorf("%w: writing entry %s: %v", errors.ErrBuild, f.Name, err)
		}
	}

	err := zw.Close()
	if err != nil {
		return fmt.Errorf("%w: finalizing archive: %v", errors.ErrBuild, err)
	}
	if sw.err != nil {
		return fmt.Errorf("%w: writing archive: %v", errors.ErrBuild, sw.err)
	}
	return nil
}

// newHeader returns the header of an AES-256 encrypted, Deflate compressed entry
// with 0755 unix permissions.
func newHeader(name, password string) *zip.FileHeader {
	fh := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	fh.SetMode(entryMode)
	fh.SetPassword(password)
	fh.SetEncryptionMethod(zip.AES256Encryption)
	return fh
}

// stickyWriter remembers the first error from w & fails every write after it.
// The zip writer buffers its output and doesn't always report a failed flush.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	s.err = err
	return n, err
}

// Extract decrypts & reads back all entries of an archive made by Build.
func Extract(data []byte, password string) ([]*structs.File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w reading archive: %v", errors.ErrInvalidArg, err)
	}

	out := []*structs.File{}
	for _, f := range zr.File {
		if f.IsEncrypted() {
			f.SetPassword(password)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w opening %s: %v", errors.ErrInvalidArg, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			// nb. a wrong password surfaces here, when the authentication code is checked
			return nil, fmt.Errorf("%w reading %s: %v", errors.ErrInvalidArg, f.Name, err)
		}
		out = append(out, &structs.File{Name: f.Name, Data: content})
	}
	return out, nil
}
