// Package backup snapshots files into a timestamped directory tree before
// they are modified, and restores them from the JSON sidecars it writes.
//
// Layout: <root>/<YYYYMMDD_HHMMSS>/<relative original path> plus a
// "<same path>.meta" sidecar per file. A lock file in the root keeps two
// runs from interleaving snapshots.
package backup

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ankit-chaubey/audio-rtl-surgery/core/fsutil"
)

const timestampLayout = "20060102_150405"

// Meta is the sidecar written next to every backed-up file.
type Meta struct {
	OriginalPath string `json:"original_path"`
	BackupTime   string `json:"backup_time"`
	FileSize     int64  `json:"file_size"`
	BackupID     string `json:"backup_id"`
}

// Snapshot is one timestamped backup directory, held open for the duration
// of a run.
type Snapshot struct {
	Dir       string
	Timestamp string
	ID        string
	lock      *flock.Flock
}

// Open creates the backup root if needed, takes the run lock, and creates a
// fresh timestamped snapshot directory.
func Open(root string) (*Snapshot, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	lock := flock.New(filepath.Join(root, ".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock backup directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("backup directory %s is locked by another run", root)
	}

	timestamp := time.Now().Format(timestampLayout)
	dir := filepath.Join(root, timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	return &Snapshot{
		Dir:       dir,
		Timestamp: timestamp,
		ID:        uuid.NewString(),
		lock:      lock,
	}, nil
}

// Close releases the run lock.
func (s *Snapshot) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Add copies path into the snapshot under rel (its path relative to the
// scanned folder) and writes the metadata sidecar.
func (s *Snapshot) Add(path, rel string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dst := filepath.Join(s.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create backup path: %w", err)
	}
	if err := fsutil.CopyFile(path, dst); err != nil {
		return fmt.Errorf("copy to backup: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	meta := Meta{
		OriginalPath: abs,
		BackupTime:   s.Timestamp,
		FileSize:     info.Size(),
		BackupID:     s.ID,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst+".meta", data, 0o644); err != nil {
		return fmt.Errorf("write backup metadata: %w", err)
	}
	return nil
}

// Restore copies files from the named snapshot back to their original
// locations. An empty timestamp selects the most recent snapshot. It returns
// the number of files restored.
func Restore(root, timestamp string) (int, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return 0, fmt.Errorf("no backups found in %s", root)
	}

	lock := flock.New(filepath.Join(root, ".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("lock backup directory: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("backup directory %s is locked by another run", root)
	}
	defer lock.Unlock()

	var dir string
	if timestamp != "" {
		dir = filepath.Join(root, timestamp)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return 0, fmt.Errorf("backup %s not found", timestamp)
		}
	} else {
		snapshots, err := listSnapshots(root)
		if err != nil {
			return 0, err
		}
		if len(snapshots) == 0 {
			return 0, fmt.Errorf("no backups found in %s", root)
		}
		dir = filepath.Join(root, snapshots[len(snapshots)-1])
	}

	restored := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".meta") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read backup metadata %s: %w", path, err)
		}
		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("parse backup metadata %s: %w", path, err)
		}

		src := strings.TrimSuffix(path, ".meta")
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("backup file missing for %s", meta.OriginalPath)
		}
		if err := os.MkdirAll(filepath.Dir(meta.OriginalPath), 0o755); err != nil {
			return err
		}
		if err := fsutil.CopyFile(src, meta.OriginalPath); err != nil {
			return fmt.Errorf("restore %s: %w", meta.OriginalPath, err)
		}
		restored++
		return nil
	})
	if err != nil {
		return restored, err
	}
	return restored, nil
}

// listSnapshots returns snapshot directory names in ascending timestamp
// order. The timestamp format sorts lexically.
func listSnapshots(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
