package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vimmoos/budget-app/internal/config"
	"github.com/vimmoos/budget-app/internal/service"
)

func newDataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Merge, back up and restore the data store",
	}
	cmd.AddCommand(newMergeCommand(), newBackupCommand(), newRestoreCommand(), newNoteCommand())
	return cmd
}

func newMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge FILE",
		Short: "Fold another instance's store into this one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			stats, err := rt.merge.Merge(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Print(rt.render.MergeStats(stats))
			return nil
		},
	}
}

func newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the store into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			path, err := rt.maintenance.Backup()
			if err != nil {
				return err
			}
			fmt.Printf("Backed up to %s\n", path)
			return nil
		},
	}
}

func newRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Overwrite the store with an uploaded file (previous kept as .bak)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Restore replaces the database file, so no connection may be
			// open while it runs.
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			m := &service.MaintenanceService{DBPath: cfg.Database.Path, BackupDir: cfg.Database.BackupDir}
			if err := m.Restore(args[0]); err != nil {
				return err
			}
			fmt.Printf("Restored store from %s (previous kept at %s.bak)\n", args[0], cfg.Database.Path)
			return nil
		},
	}
}

func newNoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Show or replace the scratchpad note",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			note, err := rt.notes.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(note.Content)
			return nil
		},
	}

	var file string
	set := &cobra.Command{
		Use:   "set [TEXT]",
		Short: "Replace the note with TEXT or the contents of --file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			var content string
			switch {
			case file != "":
				b, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				content = string(b)
			case len(args) == 1:
				content = args[0]
			default:
				return fmt.Errorf("provide TEXT or --file")
			}
			note, err := rt.notes.Get(cmd.Context())
			if err != nil {
				return err
			}
			return rt.notes.Save(cmd.Context(), note.ID, content)
		},
	}
	set.Flags().StringVar(&file, "file", "", "read the note from a file")

	cmd.AddCommand(show, set)
	return cmd
}
