package main

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dsatracker/internal/client/cli"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Validate the stored session and print who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				st := app.Start(ctx)
				if !st.Authenticated {
					return fmt.Errorf("not signed in")
				}
				return app.Whoami(ctx)
			})
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Logout(ctx)
			})
		},
	}
}
