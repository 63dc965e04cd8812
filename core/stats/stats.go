// Package stats accumulates per-run processing statistics and renders the
// final report shown after a batch completes.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ankit-chaubey/audio-rtl-surgery/core/rtl"
)

// NonRTL is the character-distribution bucket for every rune that does not
// belong to any RTL script range.
const NonRTL = "Non-RTL"

const maxBarLength = 40

// Collector gathers counters across one batch run. It is owned by a single
// goroutine; the batch driver processes files sequentially, so no locking.
type Collector struct {
	filesProcessed    int
	filesModified     int
	tagsModified      map[string]int
	scriptsFound      map[string]int
	scriptByField     map[string]map[string]int
	charactersCounted map[string]int
	errors            []string
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{
		tagsModified:      make(map[string]int),
		scriptsFound:      make(map[string]int),
		scriptByField:     make(map[string]map[string]int),
		charactersCounted: make(map[string]int),
	}
}

// RecordFileSeen counts a file entering the batch loop.
func (c *Collector) RecordFileSeen() { c.filesProcessed++ }

// RecordFileModified counts a file that had at least one change applied.
func (c *Collector) RecordFileModified() { c.filesModified++ }

// RecordTagModified counts one rewritten value for the named tag.
func (c *Collector) RecordTagModified(tag string) { c.tagsModified[tag]++ }

// RecordScript credits one RTL run found in the named field to a script.
func (c *Collector) RecordScript(field, script string) {
	c.scriptsFound[script]++
	byScript := c.scriptByField[field]
	if byScript == nil {
		byScript = make(map[string]int)
		c.scriptByField[field] = byScript
	}
	byScript[script]++
}

// RecordCharacters tallies every rune of text into its script bucket, or
// into the Non-RTL bucket when no range table claims it.
func (c *Collector) RecordCharacters(text string) {
	for _, r := range text {
		if name, ok := rtl.Classify(r); ok {
			c.charactersCounted[name]++
		} else {
			c.charactersCounted[NonRTL]++
		}
	}
}

// RecordError appends a per-file error message in encounter order.
func (c *Collector) RecordError(msg string) { c.errors = append(c.errors, msg) }

// FilesProcessed returns the number of files seen.
func (c *Collector) FilesProcessed() int { return c.filesProcessed }

// FilesModified returns the number of files changed.
func (c *Collector) FilesModified() int { return c.filesModified }

// CharacterCount returns the tally for one distribution bucket.
func (c *Collector) CharacterCount(bucket string) int { return c.charactersCounted[bucket] }

// Errors returns the recorded error messages in encounter order.
func (c *Collector) Errors() []string { return c.errors }

// Snapshot is an exported copy of the counters, used for JSON output.
type Snapshot struct {
	FilesProcessed    int                       `json:"files_processed"`
	FilesModified     int                       `json:"files_modified"`
	TagsModified      map[string]int            `json:"tags_modified,omitempty"`
	ScriptsFound      map[string]int            `json:"scripts_found,omitempty"`
	ScriptByField     map[string]map[string]int `json:"script_by_field,omitempty"`
	CharactersCounted map[string]int            `json:"characters_counted,omitempty"`
	Errors            []string                  `json:"errors,omitempty"`
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		FilesProcessed:    c.filesProcessed,
		FilesModified:     c.filesModified,
		TagsModified:      copyCounts(c.tagsModified),
		ScriptsFound:      copyCounts(c.scriptsFound),
		CharactersCounted: copyCounts(c.charactersCounted),
		Errors:            append([]string(nil), c.errors...),
	}
	if len(c.scriptByField) > 0 {
		snap.ScriptByField = make(map[string]map[string]int, len(c.scriptByField))
		for field, byScript := range c.scriptByField {
			snap.ScriptByField[field] = copyCounts(byScript)
		}
	}
	return snap
}

func copyCounts(m map[string]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Report renders the multi-section processing report. It never mutates the
// collector; calling it twice without intervening records yields identical
// output.
func (c *Collector) Report() string {
	var report []string
	report = append(report, "\n=== Processing Report ===")
	report = append(report, fmt.Sprintf("Files processed: %d", c.filesProcessed))
	report = append(report, fmt.Sprintf("Files modified: %d", c.filesModified))

	if len(c.tagsModified) > 0 {
		report = append(report, "\nModified Tags Count:")
		for _, tag := range sortedKeys(c.tagsModified) {
			report = append(report, fmt.Sprintf("  %s: %d", tag, c.tagsModified[tag]))
		}
	}

	if len(c.scriptsFound) > 0 {
		report = append(report, "\nRTL Scripts Found:")
		for _, script := range sortedKeys(c.scriptsFound) {
			report = append(report, fmt.Sprintf("  %s: %d occurrences", script, c.scriptsFound[script]))
		}

		report = append(report, "\nScripts by Field:")
		fields := make([]string, 0, len(c.scriptByField))
		for field := range c.scriptByField {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			report = append(report, fmt.Sprintf("\n  %s:", field))
			byScript := c.scriptByField[field]
			for _, script := range sortedKeys(byScript) {
				report = append(report, fmt.Sprintf("    %s: %d", script, byScript[script]))
			}
		}
	}

	report = append(report, "\n"+c.Distribution())

	if len(c.errors) > 0 {
		report = append(report, "\nErrors Encountered:")
		for _, err := range c.errors {
			report = append(report, "  - "+err)
		}
	}

	return strings.Join(report, "\n")
}

// Distribution renders a bar chart of character counts per script bucket,
// sorted by descending count with Non-RTL forced last. Ties break on bucket
// name so output is deterministic.
func (c *Collector) Distribution() string {
	if len(c.charactersCounted) == 0 {
		return "No text analysis available."
	}

	total := 0
	for _, n := range c.charactersCounted {
		total += n
	}

	buckets := make([]string, 0, len(c.charactersCounted))
	for name := range c.charactersCounted {
		buckets = append(buckets, name)
	}
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if (a == NonRTL) != (b == NonRTL) {
			return b == NonRTL
		}
		if c.charactersCounted[a] != c.charactersCounted[b] {
			return c.charactersCounted[a] > c.charactersCounted[b]
		}
		return a < b
	})

	lines := []string{
		"Character Distribution (by script):",
		strings.Repeat("-", 60),
	}
	for _, name := range buckets {
		count := c.charactersCounted[name]
		percentage := float64(count) / float64(total) * 100
		bar := strings.Repeat("█", count*maxBarLength/total)
		lines = append(lines, fmt.Sprintf("%-15s %s %5.1f%% (%s chars)",
			name, bar, percentage, humanize.Comma(int64(count))))
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
