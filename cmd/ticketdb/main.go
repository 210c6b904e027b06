package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/AlexMasonAM/TicketBlaster/internal/config"
	"github.com/AlexMasonAM/TicketBlaster/internal/logging"
	"github.com/AlexMasonAM/TicketBlaster/internal/schema"
)

// cli carries what PersistentPreRunE resolves for the subcommands.
type cli struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "ticketdb",
		Short:         "Manage the TicketBlaster ticketing database",
		Long:          `ticketdb applies the customers, events and tickets schema to PostgreSQL or SQLite and reports what is applied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Config file (yaml, json, toml or env)")
	flags.String("driver", "", "Database driver: postgres or sqlite (default: postgres)")
	flags.String("db-url", "", "PostgreSQL connection string")
	flags.String("sqlite-path", "", "SQLite database file path")
	flags.String("log-level", "", "Log level: debug, info, warn or error (default: info)")

	for key, flag := range map[string]string{
		config.KeyDatabaseDriver:     "driver",
		config.KeyDatabaseURL:        "db-url",
		config.KeyDatabaseSQLitePath: "sqlite-path",
		config.KeyLogLevel:           "log-level",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newMigrateCmd(c),
		newStatusCmd(c),
		newSchemaCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	envPath, envErr := config.LoadEnvFile()

	cfg, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	switch {
	case envErr != nil:
		logger.Warn("failed to load .env", zap.Error(envErr))
	case envPath == "":
		logger.Debug(".env not found in current or parent directories")
	default:
		logger.Debug("loaded env", zap.String("path", envPath))
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(ctx, c.cfg.Database, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			start := time.Now()
			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			c.logger.Info("migrations complete", zap.String("driver", c.cfg.Database.Driver), zap.Duration("took", time.Since(start)))
			return nil
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether each has been applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(ctx, c.cfg.Database, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := db.Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			for _, s := range statuses {
				state, at := "pending", "-"
				if s.Applied {
					state = "applied"
					at = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
			}
			return tw.Flush()
		},
	}
}

func newSchemaCmd(c *cli) *cobra.Command {
	var tables string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the live tables, columns, references and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDatabase(ctx, c.cfg.Database, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			var names []string
			for _, name := range strings.Split(tables, ",") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}

			s, err := db.Inspector().Inspect(ctx, names...)
			if err != nil {
				return fmt.Errorf("inspect schema: %w", err)
			}
			return schema.WriteText(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ticketdb: %v\n", err)
		os.Exit(1)
	}
}
