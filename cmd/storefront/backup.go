package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenfield-poultry/farmshop/internal/maintenance"
	"github.com/greenfield-poultry/farmshop/internal/storage"
)

func newBackupCmd(a *app) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot cart storage into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				files, err := maintenance.ListBackups(a.cfg.BackupPath())
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(out, f)
				}
				return nil
			}

			store, err := storage.Open(cmd.Context(), a.cfg.StorageOptions())
			if err != nil {
				return err
			}
			defer store.Close()

			svc := maintenance.New(store, nil, maintenance.Options{
				BackupDir: a.cfg.BackupPath(),
				Retention: a.cfg.BackupRetention,
			})
			path, err := svc.RunBackupNow(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, path)
			return err
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list existing backups instead of taking one")
	return cmd
}
