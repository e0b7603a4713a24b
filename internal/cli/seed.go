package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"autix_backend/config"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo dealers, cars and buyers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer closeDB(db)

			stats, err := config.Seed(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d cars, %d car requests\n",
				stats.Users, stats.Cars, stats.CarRequests)
			return nil
		},
	}
}
