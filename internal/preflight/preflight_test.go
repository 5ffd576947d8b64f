package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"slowmovie/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckNtfy_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"healthy":true}`))
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/slowmovie")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNtfy_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/slowmovie")
	if result.Passed {
		t.Fatal("expected failure on 502")
	}
}

func TestCheckNtfy_InvalidURL(t *testing.T) {
	result := CheckNtfy(context.Background(), "not a url")
	if result.Passed {
		t.Fatal("expected failure for invalid url")
	}
}

func TestRunAll_SkipsNtfyWithoutTopic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected three directory checks, got %+v", results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
}

func TestRunAll_FlagsMissingWorkDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WorkDir = filepath.Join(t.TempDir(), "gone")
	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "Work directory" {
		t.Fatalf("expected work directory failure, got %+v", failed)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if got := RunAll(context.Background(), nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
