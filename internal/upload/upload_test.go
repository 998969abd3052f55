package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name, ct string
		ok       bool
	}{
		{"syllabus.pdf", "application/pdf", true},
		{"syllabus.bin", "application/pdf; charset=binary", true},
		{"Syllabus.PDF", "", true},
		{"syllabus.pdf", "application/octet-stream", true},
		{"syllabus.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"notes.txt", "text/plain", false},
		{"notes.pdf", "text/plain", true},
		{"syllabus.pdf", "application/x-pdf", true},
		{"syllabus.pdf", "binary/octet-stream", true},
		{"syllabus.pdf.txt", "text/plain", false},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		err := Validate(tt.name, tt.ct)
		if tt.ok && err != nil {
			t.Errorf("Validate(%q, %q): unexpected error %v", tt.name, tt.ct, err)
		}
		if !tt.ok && !errors.Is(err, ErrNotPDF) {
			t.Errorf("Validate(%q, %q): expected ErrNotPDF, got %v", tt.name, tt.ct, err)
		}
	}
}

func TestStoragePath(t *testing.T) {
	tests := map[string]string{
		"calc.pdf":               "syllabi/calc.pdf",
		"../../etc/passwd.pdf":   "syllabi/passwd.pdf",
		`C:\Users\me\course.pdf`: "syllabi/course.pdf",
		"":                       "syllabi/syllabus.pdf",
	}
	for in, want := range tests {
		if got := StoragePath(in); got != want {
			t.Errorf("StoragePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRead(t *testing.T) {
	f, err := Read("a.pdf", PDFContentType, strings.NewReader("%PDF-1.4"), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Size() != 8 {
		t.Errorf("expected 8 bytes, got %d", f.Size())
	}

	if _, err := Read("a.pdf", PDFContentType, strings.NewReader("0123456789"), 5); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if _, err := Read("a.pdf", PDFContentType, strings.NewReader(""), 5); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestUploadToFSStore(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	u := NewUploader(store)

	key, err := u.Upload(context.Background(), &File{Name: "calc.pdf", ContentType: PDFContentType, Data: []byte("%PDF-1.4 body")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if key != "syllabi/calc.pdf" {
		t.Errorf("unexpected key %q", key)
	}

	rc, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 body" {
		t.Errorf("unexpected contents %q", data)
	}

	local, err := u.Resolver()(key)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := os.Stat(local); err != nil {
		t.Errorf("expected file at %s: %v", local, err)
	}
}

func TestUploadCancelled(t *testing.T) {
	store, _ := NewFSStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewUploader(store).Upload(ctx, &File{Name: "a.pdf", Data: []byte("x")}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLocalPathStaysInBase(t *testing.T) {
	base := t.TempDir()
	store, _ := NewFSStore(base)
	p, err := store.LocalPath("../../outside.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, base) {
		t.Errorf("expected %s under %s", p, base)
	}
}
