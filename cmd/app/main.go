// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/phiguard/cmd/app/commands"
)

func main() {
	cmd := &cli.Command{
		Name:    "phiguard",
		Usage:   "Multi-tenant health records service with field-level encryption",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server and the background event processor",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "scan-encrypt",
				Usage: "Scan stored records for plaintext sensitive fields and encrypt them in place",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Report plaintext occurrences without writing",
					},
					&cli.IntFlag{
						Name:    "batch-size",
						Aliases: []string{"b"},
						Value:   100,
						Usage:   "Number of records fetched per batch",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunScanEncrypt(ctx, cmd.Bool("dry-run"), cmd.Int("batch-size"))
				},
			},
			{
				Name:  "create-tenant",
				Usage: "Create a new tenant",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable tenant name",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateTenant(ctx, cmd.String("name"), commands.DefaultIO())
				},
			},
			{
				Name:  "create-client",
				Usage: "Create a new API client bound to a tenant",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable client name",
					},
					&cli.StringFlag{
						Name:     "tenant-id",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant ID (UUID) the client belongs to",
					},
					&cli.StringFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Value:   "service",
						Usage:   "Client role: staff, service or admin",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateClient(
						ctx,
						cmd.String("name"),
						cmd.String("tenant-id"),
						cmd.String("role"),
						commands.DefaultIO(),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
