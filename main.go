// Package main provides the inkwell binary entry point.
// Inkwell is a multi-user blogging platform served over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/service"

	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
	appName = "inkwell"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
}

// load reads the configuration and installs the default logger.
func (o *options) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Multi-user blogging platform",
		Long: `Inkwell is a multi-user blogging platform. Readers browse, search and
save posts; registered users write posts and comments; administrators see
everything from a dashboard.

Posts, users, comments and saves live in a single SQLite file. Login
sessions live in a badger store next to it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(opts),
		migrateCmd(opts),
		userCmd(opts),
		sessionsCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Info("Inkwell ready", "version", Version)
			return service.RunServer(ctx, cfg, logger)
		},
	}
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			return service.Migrate(cfg)
		},
	}
}

func userCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user roles",
	}
	role := func(use, short, role string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <email>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, err := opts.load()
				if err != nil {
					return err
				}
				return service.SetRole(cmd.Context(), cfg, logger, args[0], role)
			},
		}
	}
	cmd.AddCommand(
		role("promote", "Grant the admin role", models.RoleAdmin),
		role("demote", "Revoke the admin role", models.RoleSubscriber),
	)
	return cmd
}

func sessionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Maintain the login session store",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "backup <file>",
			Short: "Write a backup of all sessions to file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				return service.BackupSessions(cfg.Sessions, args[0])
			},
		},
		&cobra.Command{
			Use:   "restore <file>",
			Short: "Replace all sessions with a backup",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				return service.RestoreSessions(cfg.Sessions, args[0])
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Drop every session, logging all users out",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				return service.CleanSessions(cfg.Sessions)
			},
		},
		&cobra.Command{
			Use:   "count",
			Short: "Print the number of live sessions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				n, err := service.CountSessions(cfg.Sessions)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			},
		},
	)
	return cmd
}
