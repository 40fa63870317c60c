package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"weekend-match-api/core/app"
	"weekend-match-api/core/config"
	"weekend-match-api/core/database"
	"weekend-match-api/core/logger"
	"weekend-match-api/core/queue"
	"weekend-match-api/core/server"
	"weekend-match-api/core/worker"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

var Version = "dev"

// NewRootCommand builds the weekend-match command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "weekend-match",
		Short:         "Weekend match API: slots, bookings, groups and compatibility",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(workerCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(enqueueCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := app.Bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			if migrate {
				if err := database.Migrate(ctx, a.DB); err != nil {
					return err
				}
			}
			return server.Run(ctx, a)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func workerCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Process background tasks and run the weekly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := app.Bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			return worker.Run(ctx, a, concurrency)
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "number of tasks processed in parallel")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Init()
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level)

			db, err := database.InitDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.Migrate(cmd.Context(), db)
		},
	}
}

func enqueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Enqueue a background task",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "confirm-paid [booking-id]",
		Short: "Queue payment confirmation for a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid booking id %q: %w", args[0], err)
			}

			cfg, err := config.Init()
			if err != nil {
				return err
			}
			client := asynq.NewClient(queue.RedisOpt(cfg.Redis))
			defer client.Close()

			task, err := queue.NewConfirmBookingPaidTask(args[0])
			if err != nil {
				return err
			}
			var enqueuer queue.Enqueuer = client
			info, err := enqueuer.EnqueueContext(cmd.Context(), task)
			if err != nil {
				return fmt.Errorf("enqueue: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s (%s)\n", info.ID, info.Queue)
			return nil
		},
	})
	return cmd
}
