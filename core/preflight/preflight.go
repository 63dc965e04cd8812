// Package preflight validates the environment once at process start, before
// any file is touched. It replaces ad-hoc checks scattered through the run
// path: a failed check aborts with no file I/O performed.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"
)

// Status reports the outcome of one environment check.
type Status struct {
	Name   string
	OK     bool
	Detail string
}

// Options describes what the coming run needs from the environment.
type Options struct {
	Folder     string // folder to scan; required unless restoring
	BackupRoot string // backup root; checked when set
	Restoring  bool   // restore runs need an existing backup root
}

// Run evaluates every applicable check and returns their statuses.
func Run(opts Options) []Status {
	var results []Status

	if !opts.Restoring {
		results = append(results, checkFolder(opts.Folder))
	}
	if opts.BackupRoot != "" {
		if opts.Restoring {
			results = append(results, checkBackupRootExists(opts.BackupRoot))
		} else {
			results = append(results, checkBackupRootWritable(opts.BackupRoot))
		}
	}
	return results
}

// Failed returns the subset of statuses that did not pass.
func Failed(statuses []Status) []Status {
	var failed []Status
	for _, s := range statuses {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

func checkFolder(folder string) Status {
	s := Status{Name: "scan folder"}
	info, err := os.Stat(folder)
	switch {
	case err != nil:
		s.Detail = fmt.Sprintf("folder not found: %s", folder)
	case !info.IsDir():
		s.Detail = fmt.Sprintf("not a directory: %s", folder)
	default:
		s.OK = true
	}
	return s
}

func checkBackupRootExists(root string) Status {
	s := Status{Name: "backup directory"}
	info, err := os.Stat(root)
	switch {
	case err != nil:
		s.Detail = fmt.Sprintf("no backups found in %s", root)
	case !info.IsDir():
		s.Detail = fmt.Sprintf("not a directory: %s", root)
	default:
		s.OK = true
	}
	return s
}

func checkBackupRootWritable(root string) Status {
	s := Status{Name: "backup directory"}
	if err := os.MkdirAll(root, 0o755); err != nil {
		s.Detail = fmt.Sprintf("cannot create %s: %v", root, err)
		return s
	}
	probe := filepath.Join(root, ".preflight")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		s.Detail = fmt.Sprintf("cannot write to %s: %v", root, err)
		return s
	}
	_ = os.Remove(probe)
	s.OK = true
	return s
}
