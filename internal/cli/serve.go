package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"autix_backend/config"
	"autix_backend/internal/media"
	"autix_backend/internal/server"
	"autix_backend/internal/ws"
)

type ServeOptions struct {
	*RootOptions
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", true, "apply schema migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx := cmd.Context()

	cfg, db, err := bootstrap(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if opts.Migrate {
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	store, err := media.NewObjectStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	app := server.New(server.Deps{
		Config: cfg,
		DB:     db,
		Store:  store,
		Hub:    hub,
	})

	addr := cfg.HOST + ":" + cfg.AppPort
	log.Info().
		Str("addr", addr).
		Str("env", cfg.AppEnv).
		Str("storage", cfg.Storage.Driver).
		Msg("server starting")

	return server.Run(ctx, app, addr)
}
