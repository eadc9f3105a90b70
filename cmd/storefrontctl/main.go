// Command storefrontctl runs operator tasks against the storefront's database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"watch-storefront-backend/internal/app"
	"watch-storefront-backend/internal/config"
	"watch-storefront-backend/internal/logging"
	"watch-storefront-backend/internal/models"
	"watch-storefront-backend/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storefrontctl",
		Short:        "Operator commands for the watch storefront backend",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newReplayCmd(), newSweepCmd(), newCheckoutCmd())
	return root
}

// withApp loads configuration, builds the application and closes it after fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logging.New(cfg.Log.Level, cfg.Log.Format))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				if a.DB == nil {
					return fmt.Errorf("DATABASE_URL is required")
				}
				applied, err := a.Migrate(cmd.Context())
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
				}
				for _, name := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
				}
				return nil
			})
		},
	}
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <collection> <id>",
		Short: "Re-run the notification pipeline for one document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				res := a.Notifier.Route(cmd.Context(), models.ChangeEvent{
					Collection: args[0],
					DocumentID: args[1],
					Operation:  models.OperationInsert,
				})
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: %s %s\n", res.Collection, res.DocumentID, res.Outcome, res.Reason)
				return res.Err
			})
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "List pending payments older than SWEEP_STALE_AGE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				sweeper := services.NewSweeper(a.Store, a.Config.Sweeper.StaleAge, logging.Component(a.Logger, "sweeper"))
				stale, err := sweeper.Sweep(cmd.Context())
				if err != nil {
					return err
				}
				for _, doc := range stale {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\twatch=%s\tcreated=%s\n", doc.ID, doc.String("watchId"), doc.CreatedAt.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}
