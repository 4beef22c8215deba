package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/dsatracker/internal/client/cli"
	"github.com/dmitrijs2005/dsatracker/internal/client/config"
	"github.com/dmitrijs2005/dsatracker/internal/logging"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dsatracker",
		Short: "Track and revise data-structure and algorithm problems",
		Long: `dsatracker is the command-line client of the DSA tracker.

Run without a subcommand to start the interactive shell. The session is
restored from the local database on start and validated against the
backend before any command runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				app.Run(ctx)
				return nil
			})
		},
	}
	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		statusCmd(),
		logoutCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// withApp loads configuration from the command's flags, builds the App
// and closes it after fn returns.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	ctx := cmd.Context()
	app, err := cli.NewApp(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app)
}
