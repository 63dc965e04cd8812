package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunHappyPath(t *testing.T) {
	folder := t.TempDir()
	backupRoot := filepath.Join(t.TempDir(), "backups")

	statuses := Run(Options{Folder: folder, BackupRoot: backupRoot})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(statuses))
	}
	if failed := Failed(statuses); len(failed) != 0 {
		t.Fatalf("unexpected failures: %#v", failed)
	}
	if _, err := os.Stat(backupRoot); err != nil {
		t.Fatalf("backup root should have been created: %v", err)
	}
}

func TestRunMissingFolder(t *testing.T) {
	statuses := Run(Options{Folder: filepath.Join(t.TempDir(), "missing")})
	failed := Failed(statuses)
	if len(failed) != 1 {
		t.Fatalf("expected one failure, got %#v", statuses)
	}
	if failed[0].Detail == "" {
		t.Fatal("failure should carry a detail message")
	}
}

func TestRunFolderIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if failed := Failed(Run(Options{Folder: file})); len(failed) != 1 {
		t.Fatal("expected a failure for non-directory folder")
	}
}

func TestRunRestoring(t *testing.T) {
	existing := t.TempDir()
	if failed := Failed(Run(Options{BackupRoot: existing, Restoring: true})); len(failed) != 0 {
		t.Fatalf("unexpected failures: %#v", failed)
	}

	missing := filepath.Join(t.TempDir(), "missing")
	if failed := Failed(Run(Options{BackupRoot: missing, Restoring: true})); len(failed) != 1 {
		t.Fatal("expected a failure for missing backup root")
	}
	// The restore check must not create the directory.
	if _, err := os.Stat(missing); err == nil {
		t.Fatal("restore check should not create the backup root")
	}
}
