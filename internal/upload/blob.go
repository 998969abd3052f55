package upload

import "io"

// BlobStore is where uploaded syllabi live.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	// LocalPath resolves a key to a file on disk for tools such as pdftotext.
	LocalPath(key string) (string, error)
}
