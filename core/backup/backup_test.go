package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotAddAndRestore(t *testing.T) {
	work := t.TempDir()
	root := t.TempDir()

	original := filepath.Join(work, "sub", "שיר.mp3")
	if err := os.MkdirAll(filepath.Dir(original), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(original, []byte("original content"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := Open(root)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	if err := snap.Add(original, "sub/שיר.mp3"); err != nil {
		t.Fatalf("add to snapshot: %v", err)
	}
	if err := snap.Close(); err != nil {
		t.Fatalf("close snapshot: %v", err)
	}

	backed := filepath.Join(snap.Dir, "sub", "שיר.mp3")
	data, err := os.ReadFile(backed)
	if err != nil {
		t.Fatalf("backup copy missing: %v", err)
	}
	if string(data) != "original content" {
		t.Fatalf("backup content = %q", data)
	}

	metaRaw, err := os.ReadFile(backed + ".meta")
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	var meta Meta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		t.Fatalf("sidecar not valid JSON: %v", err)
	}
	if meta.BackupTime != snap.Timestamp {
		t.Fatalf("backup_time = %q, want %q", meta.BackupTime, snap.Timestamp)
	}
	if meta.FileSize != int64(len("original content")) {
		t.Fatalf("file_size = %d", meta.FileSize)
	}
	if meta.BackupID != snap.ID {
		t.Fatalf("backup_id = %q, want %q", meta.BackupID, snap.ID)
	}
	if !filepath.IsAbs(meta.OriginalPath) {
		t.Fatalf("original_path should be absolute: %q", meta.OriginalPath)
	}

	// Clobber the original, then restore the latest snapshot.
	if err := os.WriteFile(original, []byte("mangled"), 0o644); err != nil {
		t.Fatal(err)
	}
	restored, err := Restore(root, "")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != 1 {
		t.Fatalf("restored %d files, want 1", restored)
	}
	data, err = os.ReadFile(original)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original content" {
		t.Fatalf("restored content = %q", data)
	}
}

func TestRestoreSpecificTimestamp(t *testing.T) {
	work := t.TempDir()
	root := t.TempDir()

	original := filepath.Join(work, "a.mp3")
	if err := os.WriteFile(original, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Add(original, "a.mp3"); err != nil {
		t.Fatal(err)
	}
	if err := snap.Close(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(original, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Restore(root, snap.Timestamp); err != nil {
		t.Fatalf("restore by timestamp: %v", err)
	}
	data, _ := os.ReadFile(original)
	if string(data) != "v1" {
		t.Fatalf("content after restore = %q", data)
	}

	if _, err := Restore(root, "19700101_000000"); err == nil {
		t.Fatal("expected error for unknown timestamp")
	}
}

func TestRestoreMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := Restore(missing, ""); err == nil {
		t.Fatal("expected error for missing backup root")
	}
}

func TestRestoreEmptyRoot(t *testing.T) {
	root := t.TempDir()
	if _, err := Restore(root, ""); err == nil {
		t.Fatal("expected error for a root with no snapshots")
	}
}
