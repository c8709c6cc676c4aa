package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/grocer/internal/backup"
	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/seed"
)

var (
	seedFile  string
	seedForce bool

	backupOut  string
	backupKeep int

	restoreFile  string
	restoreS3Key string
)

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "seed YAML file (default: built-in catalog)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when categories exist")

	backupCmd.Flags().StringVar(&backupOut, "out", "", "backup directory (overrides backup.dir)")
	backupCmd.Flags().IntVar(&backupKeep, "keep", 0, "delete all but the newest N backups (0 keeps all)")

	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "encrypted backup file")
	restoreCmd.Flags().StringVar(&restoreS3Key, "s3-key", "", "object key in the configured bucket")
	restoreCmd.MarkFlagsMutuallyExclusive("file", "s3-key")
	restoreCmd.MarkFlagsOneRequired("file", "s3-key")
}

func loadSeed(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.ReadFile(path)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load starter categories, items and templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		db, err := a.openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		path := seedFile
		if path == "" {
			path = a.cfg.Seed.File
		}
		d, err := loadSeed(path)
		if err != nil {
			return err
		}
		sum, err := seed.Load(cmd.Context(), grocery.New(db, a.logger), d, seedForce, a.logger)
		if err != nil {
			return err
		}
		if sum.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "catalog not empty; use --force to seed anyway")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d items, %d templates\n",
			sum.Categories, sum.Items, sum.Templates)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write an encrypted snapshot of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		db, err := a.openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		opts := a.cfg.BackupOptions()
		if backupOut != "" {
			opts.Dir = backupOut
		}
		m := backup.NewManager(opts, db, a.logger)
		res, err := m.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.File)

		if backupKeep > 0 {
			if _, err := m.Prune(cmd.Context(), backupKeep); err != nil {
				return err
			}
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the database with a backup (stop the server first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		opts := a.cfg.BackupOptions()
		if opts.Passphrase == "" {
			return errors.New("backup.passphrase is required to restore")
		}
		src := restoreFile
		if restoreS3Key != "" {
			src = "s3://" + restoreS3Key
		}
		if err := backup.NewManager(opts, nil, a.logger).Restore(cmd.Context(), src); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restored %s from %s\n", opts.DBPath, src)
		return nil
	},
}
