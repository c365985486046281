package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"paypal-payments-gateway/internal/app"
	"paypal-payments-gateway/internal/config"
	"paypal-payments-gateway/internal/logger"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "webhookctl",
		Short:        "Manage the PayPal webhook subscription of the payments gateway",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(unregisterCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withGateway(cmd *cobra.Command, fn func(ctx context.Context, gateway *app.App) error) error {
	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	ctx := cmd.Context()
	gateway, err := app.New(ctx, cfg, logger.New(os.Stderr, cfg.Log.Level, "text"))
	if err != nil {
		return err
	}
	defer gateway.Close(context.Background())
	return fn(ctx, gateway)
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Replace existing subscriptions with one for BASE_URL/paypal/webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd, func(ctx context.Context, gateway *app.App) error {
				if !gateway.Registrar.Register(ctx) {
					return fmt.Errorf("webhook registration failed, see log")
				}
				record, err := gateway.Registrar.Registered(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), record)
			})
		},
	}
}

func unregisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Delete every webhook subscription pointing at this gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd, func(ctx context.Context, gateway *app.App) error {
				if !gateway.Registrar.Unregister(ctx) {
					return fmt.Errorf("webhook removal failed, see log")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "unregistered")
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhook subscriptions known to PayPal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd, func(ctx context.Context, gateway *app.App) error {
				webhooks, err := gateway.Registrar.List(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), webhooks)
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the registered subscription, last event and self-test state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd, func(ctx context.Context, gateway *app.App) error {
				record, err := gateway.Registrar.Registered(ctx)
				if err != nil {
					return err
				}
				last, err := gateway.Diagnostics.LastEvent(ctx)
				if err != nil {
					return err
				}
				simulation, err := gateway.Diagnostics.Simulation(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"registered": record,
					"last_event": last,
					"simulation": simulation,
				})
			})
		},
	}
}

func simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Ask PayPal to send a test event to the registered subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd, func(ctx context.Context, gateway *app.App) error {
				record, err := gateway.Registrar.Registered(ctx)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("no webhook registered")
				}
				status, err := gateway.Diagnostics.Simulate(ctx, record.ID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			})
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
