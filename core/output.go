// Package core holds output helpers shared by the CLI and the batch driver.
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ankit-chaubey/audio-rtl-surgery/core/stats"
)

// Printer handles all display output for the CLI.
type Printer struct {
	JSON   bool
	Writer io.Writer
}

// NewPrinter creates a default Printer writing to stdout.
func NewPrinter(jsonMode bool) *Printer {
	return &Printer{JSON: jsonMode, Writer: os.Stdout}
}

// PrintReport renders the run statistics in the configured format.
func (p *Printer) PrintReport(c *stats.Collector) {
	if p.JSON {
		b, _ := json.MarshalIndent(c.Snapshot(), "", "  ")
		fmt.Fprintln(p.Writer, string(b))
		return
	}
	fmt.Fprintln(p.Writer, c.Report())
}

// PrintSuccess prints a success message.
func (p *Printer) PrintSuccess(msg string) {
	fmt.Fprintln(p.Writer, "✓ "+msg)
}

// PrintInfo prints an info line (suppressed in JSON mode).
func (p *Printer) PrintInfo(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}
