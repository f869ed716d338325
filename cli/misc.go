package cli

import (
	"fmt"
	"os"
	"time"

	"tagdo/tagdo/tui"
	"tagdo/tagdo/utils/token"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the preview tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client().Seed(cmd.Context(), force)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Tasks already exist, nothing seeded (use --force).")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tasks\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "seed even when tasks already exist")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret, clientName string
		ttl                time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a server's AUTH_SECRET",
		Args:  cobra.NoArgs,
		// Token minting needs no server settings.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("AUTH_SECRET")
			}
			signed, err := token.GenerateToken(clientName, []byte(secret), ttl)
			if err != nil {
				return fmt.Errorf("%w: pass --secret or set AUTH_SECRET", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $AUTH_SECRET)")
	cmd.Flags().StringVar(&clientName, "client", "tagdo-cli", "client name recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list and detail views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.client()
			if err := c.Health(ctx); err != nil {
				return fmt.Errorf("server %s unreachable: %w", a.settings.Server, err)
			}

			var opts []tui.Option
			events, err := c.Watch(ctx, "all")
			if err != nil {
				log.Warn("Change feed unavailable, press r to refresh", "err", err)
			} else {
				opts = append(opts, tui.WithEvents(events))
			}
			return tui.Run(ctx, c, opts...)
		},
	}
}
