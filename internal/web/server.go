// Package web provides a read-only web UI over the run history.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/stratline/playbook/internal/db"
	"github.com/stratline/playbook/internal/model"
)

// Server provides the web UI handlers and state.
type Server struct {
	store *db.Store
}

// NewServer creates a new web server over the run store.
func NewServer(store *db.Store) (*Server, error) {
	return &Server{store: store}, nil
}

//go:embed templates/*.html
var templatesFS embed.FS

// Routes returns the router for the web UI.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /runs/{id}/report", s.handleReport)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, runs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	runs, err := s.store.ListRuns(r.Context(), 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, rec := range runs {
		if rec.RunID != id {
			continue
		}
		data, err := os.ReadFile(filepath.Join(rec.RunDir, "report.json"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var report model.Report
		if err := json.Unmarshal(data, &report); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}
	http.Error(w, "unknown run", http.StatusNotFound)
}
