package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stratline/playbook/internal/db"
	"github.com/stratline/playbook/internal/model"
)

func newTestServer(t *testing.T) (*Server, *db.Store, string) {
	t.Helper()
	base := t.TempDir()
	handle, err := db.Open(filepath.Join(base, "playbook.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = handle.Close() })
	store := db.NewStore(handle)
	server, err := NewServer(store)
	if err != nil {
		t.Fatal(err)
	}
	return server, store, base
}

func TestIndexListsRuns(t *testing.T) {
	t.Parallel()

	server, store, base := newTestServer(t)
	runDir := filepath.Join(base, "runs", "run-1")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateRun(context.Background(), "run-1", runDir, 8); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "run-1") {
		t.Fatalf("index does not list run-1:\n%s", rec.Body.String())
	}
}

func TestReportEndpointServesArtifact(t *testing.T) {
	t.Parallel()

	server, store, base := newTestServer(t)
	runDir := filepath.Join(base, "runs", "run-2")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	report := model.Report{RunID: "run-2", ExecSummary: "two plays selected"}
	data, _ := json.Marshal(report)
	if err := os.WriteFile(filepath.Join(runDir, "report.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateRun(context.Background(), "run-2", runDir, 8); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-2/report", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a report: %v", err)
	}
	if got.ExecSummary != "two plays selected" {
		t.Fatalf("exec summary = %q", got.ExecSummary)
	}
}

func TestReportEndpointUnknownRun(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/nope/report", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
