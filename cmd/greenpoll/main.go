package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tech-arch1tect/greenpoll"
	"github.com/tech-arch1tect/greenpoll/config"
	"github.com/tech-arch1tect/greenpoll/services/auth"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"github.com/tech-arch1tect/greenpoll/services/scheduler"
	"github.com/tech-arch1tect/greenpoll/session"
	"go.uber.org/fx"
)

const oneShotTimeout = 5 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "greenpoll",
		Short:         "GreenPoll polling API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(cfg); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the prune schedule",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg.Database.AutoMigrate = true
				return oneShot(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Delete expired tokens, sessions and stale unverified accounts, then exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					authService *auth.Service
					sessions    *session.Service
					logger      *logging.Service
				)
				return oneShot(cmd.Context(), cfg,
					fx.Populate(&authService, &sessions, &logger),
					fx.Invoke(func(lc fx.Lifecycle) {
						lc.Append(fx.Hook{
							OnStart: func(ctx context.Context) error {
								return scheduler.NewPruneJob(authService, sessions, logger.Named("prune")).Run(ctx)
							},
						})
					}),
				)
			},
		},
	)

	return rootCmd
}

func serve(cfg *config.Config) error {
	app, err := greenpoll.New(greenpoll.WithConfig(cfg))
	if err != nil {
		return err
	}
	return app.Run()
}

// oneShot starts the application without the HTTP listener or the prune
// schedule, runs the start hooks and stops again.
func oneShot(ctx context.Context, cfg *config.Config, fxOpts ...fx.Option) error {
	cfg.Prune.Enabled = false

	app, err := greenpoll.New(
		greenpoll.WithConfig(cfg),
		greenpoll.WithoutListener(),
		greenpoll.WithFxOptions(fxOpts...),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, oneShotTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}
