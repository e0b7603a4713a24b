package cli

import (
	"github.com/spf13/cobra"

	"autix_backend/config"
)

type MigrateOptions struct {
	*RootOptions
	Reset bool
}

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  "Apply the database schema. With --reset every table is dropped, recreated and seeded with demo data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap(opts.RootOptions)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if opts.Reset {
				return config.ResetAndMigrate(db)
			}
			return config.Migrate(db)
		},
	}

	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "drop all tables before migrating, then seed")
	return cmd
}
