package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/server"
)

type flags struct {
	configPath string
	port       string
	host       string
	dev        bool
	debug      bool
	noConsole  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the miniapp shell with its debug console",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (.yaml, .toml, .json); defaults to $APP_CONFIG")
	cmd.Flags().StringVar(&f.port, "port", "", "console port")
	cmd.Flags().StringVar(&f.host, "host", "", "console host")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "development logging")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "enable the debug log")
	cmd.Flags().BoolVar(&f.noConsole, "no-console", false, "run the shell without the console")

	return cmd
}

// loadConfig applies flags that were set on top of the loaded configuration
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path = os.Getenv(config.FileEnv)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = f.port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = f.host
	}
	if cmd.Flags().Changed("dev") {
		cfg.Logging.Development = f.dev
		if f.dev {
			cfg.Logging.Level = "debug"
		}
	}
	if cmd.Flags().Changed("debug") {
		cfg.App.Debug = f.debug
	}
	if cmd.Flags().Changed("no-console") {
		cfg.Server.ConsoleEnabled = !f.noConsole
	}

	return cfg, nil
}

func run(cfg *config.Config) error {
	srv, err := server.NewServer(cfg, server.Options{})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
