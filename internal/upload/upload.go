// Package upload validates syllabus files and stores them durably.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"
)

const (
	// Prefix is the storage folder for syllabi.
	Prefix          = "syllabi/"
	PDFContentType  = "application/pdf"
	DefaultMaxBytes = 20 << 20
)

var (
	ErrNotPDF   = errors.New("file is not a PDF")
	ErrTooLarge = errors.New("file is too large")
	ErrEmpty    = errors.New("file is empty")
)

// File is a selected syllabus held until the plan is generated.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) Size() int {
	return len(f.Data)
}

// Validate accepts a file whose content type is application/pdf or whose
// name ends in .pdf. Either one is enough.
func Validate(name, contentType string) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == PDFContentType {
		return nil
	}
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil
	}
	return fmt.Errorf("%w: %s (%s)", ErrNotPDF, name, contentType)
}

// Read buffers a selected file, failing past max bytes.
func Read(name, contentType string, r io.Reader, max int64) (*File, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, name)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, name)
	}
	return &File{Name: name, ContentType: contentType, Data: data}, nil
}

// StoragePath is the durable path of an uploaded file: the syllabi folder
// plus the file's base name.
func StoragePath(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		base = "syllabus.pdf"
	}
	return Prefix + base
}

// Uploader writes syllabi to a BlobStore.
type Uploader struct {
	store BlobStore
}

func NewUploader(store BlobStore) *Uploader {
	return &Uploader{store: store}
}

// Upload stores f and returns the path the analysis service should read.
func (u *Uploader) Upload(ctx context.Context, f *File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f == nil || len(f.Data) == 0 {
		return "", ErrEmpty
	}
	key, err := u.store.Put(StoragePath(f.Name), bytes.NewReader(f.Data))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", f.Name, err)
	}
	log.Printf("[upload] stored %s (%d bytes) at %s", f.Name, f.Size(), key)
	return key, nil
}

// Resolver returns a function mapping stored paths to local files.
func (u *Uploader) Resolver() func(string) (string, error) {
	return u.store.LocalPath
}
