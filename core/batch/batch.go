// Package batch walks a folder of audio files and applies filename and tag
// operations to each one, recording outcomes into a stats collector. Files
// are handled sequentially; a failure in one file is recorded and the run
// moves on.
package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"

	"github.com/ankit-chaubey/audio-rtl-surgery/core"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/backup"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/rtl"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/stats"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/tags"
)

// audioExtensions is the set of file extensions the walk picks up.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".ogg":  {},
	".flac": {},
	".m4a":  {},
	".wav":  {},
	".wma":  {},
}

// Options selects the operations applied to every discovered file.
type Options struct {
	Folder      string
	Remove      string // substring stripped from filenames
	ReverseRTL  bool   // reverse RTL runs in filenames
	ReverseTags bool   // reverse RTL runs in tag values
	DryRun      bool
	BackupDir   string // when set, snapshot each file before modifying it
	Progress    bool
}

// Change is one intended modification, collected for the dry-run preview.
type Change struct {
	File   string
	Field  string
	Before string
	After  string
}

// Driver owns one batch run.
type Driver struct {
	opts      Options
	mappings  tags.Mappings
	collector *stats.Collector
	printer   *core.Printer
	snapshot  *backup.Snapshot
	changes   []Change
}

// New builds a Driver. The collector is exclusively owned by the run and
// read by the caller once it finishes.
func New(opts Options, mappings tags.Mappings, collector *stats.Collector, printer *core.Printer) *Driver {
	return &Driver{
		opts:      opts,
		mappings:  mappings,
		collector: collector,
		printer:   printer,
	}
}

// Changes returns the modifications detected during the run, in file order.
func (d *Driver) Changes() []Change { return d.changes }

// Run processes every audio file under the folder. Per-file failures are
// downgraded to recorded errors; only setup failures return an error.
func (d *Driver) Run() error {
	files, err := d.discover()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		d.printer.PrintInfo(fmt.Sprintf("No audio files found in %s", d.opts.Folder))
		return nil
	}

	if d.opts.BackupDir != "" && !d.opts.DryRun {
		snap, err := backup.Open(d.opts.BackupDir)
		if err != nil {
			return err
		}
		d.snapshot = snap
		defer func() {
			_ = snap.Close()
		}()
	}

	var bar *progressbar.ProgressBar
	if d.opts.Progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Processing files"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, path := range files {
		d.collector.RecordFileSeen()
		if bar != nil {
			bar.Describe("Processing: " + filepath.Base(path))
		}
		if d.processFile(path) {
			d.collector.RecordFileModified()
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}

func (d *Driver) discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.opts.Folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			d.collector.RecordError(fmt.Sprintf("Error scanning %s: %v", path, err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := audioExtensions[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan folder: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// processFile applies the selected operations to one file and reports
// whether a change was detected. When a backup directory is configured, a
// failed snapshot skips the file entirely: never modify without a backup.
func (d *Driver) processFile(path string) bool {
	if d.snapshot != nil {
		rel, err := filepath.Rel(d.opts.Folder, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		if err := d.snapshot.Add(path, rel); err != nil {
			d.collector.RecordError(fmt.Sprintf("Backup failed for %s: %v", path, err))
			return false
		}
	}

	changed := false
	if d.opts.Remove != "" || d.opts.ReverseRTL {
		newPath, renamed := d.processFilename(path)
		if renamed {
			changed = true
			path = newPath
		}
	}
	if d.opts.ReverseTags {
		if d.processTags(path) {
			changed = true
		}
	}
	return changed
}

func (d *Driver) processFilename(path string) (string, bool) {
	oldName := filepath.Base(path)
	newName := oldName

	if d.opts.Remove != "" {
		newName = strings.ReplaceAll(newName, d.opts.Remove, "")
	}
	if d.opts.ReverseRTL {
		d.recordRuns("filename", newName)
		newName = rtl.ReverseSegments(newName, d.collector)
	}
	if newName == oldName {
		return path, false
	}

	newPath := filepath.Join(filepath.Dir(path), newName)
	if d.opts.DryRun {
		d.changes = append(d.changes, Change{File: path, Field: "filename", Before: oldName, After: newName})
		d.printer.PrintInfo(fmt.Sprintf("Would rename: %s → %s", oldName, newName))
		return path, true
	}
	if err := os.Rename(path, newPath); err != nil {
		d.collector.RecordError(fmt.Sprintf("Error renaming %s: %v", oldName, err))
		return path, false
	}
	d.changes = append(d.changes, Change{File: path, Field: "filename", Before: oldName, After: newName})
	d.printer.PrintInfo(fmt.Sprintf("Renamed: %s → %s", oldName, newName))
	return newPath, true
}

func (d *Driver) processTags(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	container := tags.DetectContainer(path, ext)
	if container == tags.ContainerUnknown {
		d.collector.RecordError(fmt.Sprintf("Unsupported format: %s", path))
		return false
	}

	values, err := tags.Read(path, container)
	if err != nil {
		d.collector.RecordError(fmt.Sprintf("Error reading tags for %s: %v", path, err))
		return false
	}

	changed := make(map[string][]string)
	detected := false
	for _, category := range d.mappings.For(container).Categories() {
		for _, tagName := range category.Tags {
			vals, ok := values[tagName]
			if !ok {
				continue
			}
			newVals := make([]string, 0, len(vals))
			tagChanged := false
			for _, v := range vals {
				d.recordRuns(tagName, v)
				nv := rtl.ReverseSegments(v, d.collector)
				if nv != v {
					tagChanged = true
					d.collector.RecordTagModified(tagName)
					d.changes = append(d.changes, Change{File: path, Field: tagName, Before: v, After: nv})
					if d.opts.DryRun {
						d.printer.PrintInfo(fmt.Sprintf("Would update %s (%s): %s → %s", tagName, category.Name, v, nv))
					} else {
						d.printer.PrintInfo(fmt.Sprintf("Updated %s (%s): %s → %s", tagName, category.Name, v, nv))
					}
				}
				newVals = append(newVals, nv)
			}
			if tagChanged {
				detected = true
				changed[tagName] = newVals
			}
		}
	}

	if !detected || d.opts.DryRun {
		return detected
	}
	if err := tags.Write(path, container, changed); err != nil {
		d.collector.RecordError(fmt.Sprintf("Error saving tags for %s: %v", path, err))
		return false
	}
	return true
}

// recordRuns credits every RTL run in text to a script bucket. A run only
// needs each rune to be in the union of the RTL ranges, so a run spanning
// two scripts is counted once, under the script of its first rune.
func (d *Driver) recordRuns(field, text string) {
	for _, seg := range rtl.Split(text) {
		if !seg.RTL {
			continue
		}
		r, _ := utf8.DecodeRuneInString(seg.Text)
		if name, ok := rtl.Classify(r); ok {
			d.collector.RecordScript(field, name)
		}
	}
}
