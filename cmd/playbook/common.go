package main

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/stratline/playbook/internal/db"
)

// openDB opens the run-history database under .playbook in the working
// directory, creating the directory if needed. It returns the working
// directory so callers can resolve config and run paths against it.
func openDB() (*sql.DB, string, func(), error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", func() {}, err
	}
	baseDir := filepath.Join(workDir, ".playbook")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, "", func() {}, err
	}
	storeDB, err := db.Open(filepath.Join(baseDir, "playbook.db"))
	if err != nil {
		return nil, "", func() {}, err
	}
	return storeDB, workDir, func() { _ = storeDB.Close() }, nil
}
