// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/squall/internal/testutil"
)

// SetupTestProject creates a temporary project:
//
//	migrations/001_create.sql   clean
//	migrations/002_select.sql   SELECT * (one no-select-star finding)
//	migrations/003_quiet.sql    SELECT * behind a disable directive
//	squall.yaml                 enables no-select-star
//
// It returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"migrations/001_create.sql": "CREATE TABLE users (id bigint PRIMARY KEY, email text NOT NULL);\n",
		"migrations/002_select.sql": "SELECT * FROM users;\n",
		"migrations/003_quiet.sql":  "-- squall-disable:no-select-star\nSELECT * FROM users;\n",
		"migrations/notes.txt":      "not linted\n",
		"squall.yaml":               "rules:\n  no-select-star:\n",
	})
	return dir
}

// Migrations returns the migrations directory of a project created by
// SetupTestProject.
func Migrations(dir string) string {
	return filepath.Join(dir, "migrations")
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
