package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ankit-chaubey/audio-rtl-surgery/core/backup"
)

func TestRequiresAnOperation(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{t.TempDir()})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "at least one operation") {
		t.Fatalf("expected operation-validation error, got %v", err)
	}
}

func TestRequiresFolderArgument(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing folder argument")
	}
}

func TestMissingFolderFailsPreflight(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing"), "--reverse-rtl"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "preflight") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestRestoreRequiresBackupDir(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{t.TempDir(), "--restore-backup"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--backup-dir") {
		t.Fatalf("expected backup-dir requirement, got %v", err)
	}
}

func TestRestoreMissingBackupRootFails(t *testing.T) {
	cmd := newRootCommand()
	missing := filepath.Join(t.TempDir(), "nope")
	cmd.SetArgs([]string{t.TempDir(), "--restore-backup", "--backup-dir=" + missing})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected failure for missing backup root")
	}
}

func TestRestoreByTimestampFlag(t *testing.T) {
	work := t.TempDir()
	root := t.TempDir()

	original := filepath.Join(work, "a.mp3")
	if err := os.WriteFile(original, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := backup.Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Add(original, "a.mp3"); err != nil {
		t.Fatal(err)
	}
	if err := snap.Close(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(original, []byte("mangled"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The timestamp binds through the = form; NoOptDefVal flags do not
	// consume a following argument.
	cmd := newRootCommand()
	cmd.SetArgs([]string{work, "--restore-backup=" + snap.Timestamp, "--backup-dir", root})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	data, err := os.ReadFile(original)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v1" {
		t.Fatalf("content after restore = %q", data)
	}
}

func TestDryRunSmoke(t *testing.T) {
	folder := t.TempDir()
	path := filepath.Join(folder, "שלום.mp3")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand()
	cmd.SetArgs([]string{folder, "--reverse-rtl", "--dry-run", "--no-progress", "--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dry run must leave files alone: %v", err)
	}
}
