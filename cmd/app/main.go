package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/recall/internal"
	pkgconfig "github.com/starford/recall/pkg/config"
)

var version = "dev"

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	overridden := false
	if dir := cmd.String("storage-dir"); dir != "" {
		cfg.Storage.Dir = dir
		overridden = true
	}
	if transport := cmd.String("transport"); transport != "" {
		cfg.App.Transport = transport
		overridden = true
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "agent-recall",
		Usage:   "Markdown knowledge base for AI agents, served over MCP",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "storage-dir",
				Usage:   "Knowledge base directory (default ~/.agent-docs)",
				Sources: cli.EnvVars("AGENT_RECALL_STORAGE_DIR"),
			},
			&cli.StringFlag{
				Name:    "transport",
				Usage:   "MCP transport: stdio or http",
				Sources: cli.EnvVars("AGENT_RECALL_TRANSPORT"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
