package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_AnalyzeSyllabus(t *testing.T) {
	var gotOrigin string
	var gotReq AnalyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+FuncAnalyzeSyllabus {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotOrigin = r.Header.Get("Origin")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plan":[{"name":"Series","priority":"Medium","difficulty":"Hard","hours":4}]}`))
	}))
	defer srv.Close()

	c := NewFetchClient(srv.URL, "http://localhost:5000")
	topics, err := c.AnalyzeSyllabus(context.Background(), AnalyzeRequest{FilePath: "syllabi/b.pdf", Days: 3})
	if err != nil {
		t.Fatalf("AnalyzeSyllabus: %v", err)
	}
	if gotOrigin != "http://localhost:5000" {
		t.Errorf("origin = %q", gotOrigin)
	}
	if gotReq.FilePath != "syllabi/b.pdf" || gotReq.Days != 3 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(topics) != 1 || topics[0].Name != "Series" {
		t.Errorf("unexpected topics: %+v", topics)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal"))
	}))
	defer srv.Close()

	_, err := NewFetchClient(srv.URL, "").AnalyzeSyllabus(context.Background(), AnalyzeRequest{FilePath: "a.pdf", Days: 1})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 500 {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
}

func TestFetch_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"no syllabus found"}`))
	}))
	defer srv.Close()

	_, err := NewFetchClient(srv.URL, "").GenerateQuiz(context.Background(), QuizRequest{})
	var ce *CallError
	if !errors.As(err, &ce) || ce.Message != "no syllabus found" {
		t.Fatalf("expected CallError, got %v", err)
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetchClient("http://127.0.0.1:1", "").GenerateQuiz(ctx, QuizRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// stallingServer never answers until the test ends.
func stallingServer(t *testing.T) string {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv.URL
}

func TestFetch_CancelWithoutDeadline(t *testing.T) {
	url := stallingServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := NewFetchClient(url, "").GenerateQuiz(ctx, QuizRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call returned %v after cancel", elapsed)
	}
}
