package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/millops/config"
	"example.com/millops/internal/export"
)

var restoreMerge bool

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.json>",
	Short: "Restore the document from a backup file",
	Long: `Replace the stored document with the contents of a JSON backup,
or merge the backup into the current document with --merge.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreMerge, "merge", false, "merge into the current document instead of replacing it")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	app, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to open backup file")
	}
	defer f.Close()

	backup, err := export.ReadBackup(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if restoreMerge {
		current, err := app.repo.Get(ctx)
		if err != nil {
			return err
		}
		export.Merge(current, backup)
		backup = current
	}

	if err := app.repo.Replace(ctx, backup); err != nil {
		return err
	}

	log.Info().Str("file", args[0]).Bool("merge", restoreMerge).Msg("Document restored")
	return nil
}
