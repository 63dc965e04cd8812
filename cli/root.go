package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/audio-rtl-surgery/core"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/backup"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/batch"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/preflight"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/stats"
	"github.com/ankit-chaubey/audio-rtl-surgery/core/tags"
)

func newRootCommand() *cobra.Command {
	var (
		removeStr   string
		reverseRTL  bool
		reverseTags bool
		dryRun      bool
		backupDir   string
		restoreFlag string
		tagConfig   string
		jsonOut     bool
		noProgress  bool
	)

	rootCmd := &cobra.Command{
		Use:   "audio-rtl-surgery <folder>",
		Short: "Reverse RTL script runs in audio filenames and tags",
		Long: "Process audio files so that right-to-left text (Hebrew, Arabic, ...) displays\n" +
			"correctly on players with limited RTL support: RTL runs inside filenames and\n" +
			"metadata tags are reversed in place, everything else is left untouched.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			restoring := cmd.Flags().Changed("restore-backup")

			if restoring {
				return runRestore(backupDir, restoreFlag, jsonOut)
			}

			if removeStr == "" && !reverseRTL && !reverseTags {
				return errors.New("at least one operation (--remove, --reverse-rtl, or --reverse-tags) must be specified")
			}

			checks := preflight.Run(preflight.Options{Folder: folder, BackupRoot: backupDir})
			if failed := preflight.Failed(checks); len(failed) > 0 {
				printStatusTable(failed)
				return errors.New("preflight checks failed")
			}

			mappings, err := tags.LoadMappings(tagConfig)
			if err != nil {
				return err
			}

			collector := stats.New()
			printer := core.NewPrinter(jsonOut)
			progress := !noProgress && !jsonOut && isatty.IsTerminal(os.Stderr.Fd())

			driver := batch.New(batch.Options{
				Folder:      folder,
				Remove:      removeStr,
				ReverseRTL:  reverseRTL,
				ReverseTags: reverseTags,
				DryRun:      dryRun,
				BackupDir:   backupDir,
				Progress:    progress,
			}, mappings, collector, printer)

			if err := driver.Run(); err != nil {
				return err
			}

			if dryRun && !jsonOut {
				printChangeTable(driver.Changes())
			}
			printer.PrintReport(collector)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&removeStr, "remove", "", "String to remove from filenames")
	rootCmd.Flags().BoolVar(&reverseRTL, "reverse-rtl", false, "Reverse RTL parts in filenames")
	rootCmd.Flags().BoolVar(&reverseTags, "reverse-tags", false, "Reverse RTL parts in audio tags")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without changing files")
	rootCmd.Flags().StringVar(&backupDir, "backup-dir", "", "Create backups in the given directory before modifications")
	rootCmd.Flags().StringVar(&restoreFlag, "restore-backup", "", "Restore from backup: --restore-backup=TIMESTAMP for a specific snapshot, or the bare flag for the most recent")
	rootCmd.Flags().Lookup("restore-backup").NoOptDefVal = "latest"
	rootCmd.Flags().StringVar(&tagConfig, "tag-config", "", "TOML file overriding the built-in tag field tables")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the final report as JSON")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return rootCmd
}

func runRestore(backupDir, timestamp string, jsonOut bool) error {
	if backupDir == "" {
		return errors.New("--restore-backup requires --backup-dir")
	}

	checks := preflight.Run(preflight.Options{BackupRoot: backupDir, Restoring: true})
	if failed := preflight.Failed(checks); len(failed) > 0 {
		printStatusTable(failed)
		return errors.New("preflight checks failed")
	}

	if timestamp == "latest" {
		timestamp = ""
	}
	restored, err := backup.Restore(backupDir, timestamp)
	if err != nil {
		return err
	}

	printer := core.NewPrinter(jsonOut)
	printer.PrintSuccess(fmt.Sprintf("Restored %d files from backup", restored))
	return nil
}

func printStatusTable(statuses []preflight.Status) {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{s.Name, s.Detail})
	}
	fmt.Fprintln(os.Stderr, renderTable([]string{"Check", "Problem"}, rows))
}

func printChangeTable(changes []batch.Change) {
	if len(changes) == 0 {
		return
	}
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{c.File, c.Field, c.Before, c.After})
	}
	fmt.Println(renderTable([]string{"File", "Field", "Before", "After"}, rows))
}
