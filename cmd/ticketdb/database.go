package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AlexMasonAM/TicketBlaster/internal/config"
	"github.com/AlexMasonAM/TicketBlaster/internal/schema"
	"github.com/AlexMasonAM/TicketBlaster/internal/storage/sqlite"
	"github.com/AlexMasonAM/TicketBlaster/migrations"
)

// database hides which backend the subcommands talk to.
type database interface {
	Migrate(ctx context.Context) error
	Status(ctx context.Context) ([]migrations.VersionStatus, error)
	Inspector() schema.Inspector
	Close()
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(connectCtx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("connected", zap.String("driver", cfg.Driver), zap.String("path", cfg.SQLitePath))
		return &sqliteDatabase{db: db, logger: logger}, nil
	case config.DriverPostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		poolCfg.MaxConns = cfg.MaxConns

		pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to db: %w", err)
		}
		if err := pool.Ping(connectCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		logger.Debug("connected", zap.String("driver", cfg.Driver), zap.String("host", poolCfg.ConnConfig.Host))
		return &postgresDatabase{pool: pool, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

type postgresDatabase struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func (p *postgresDatabase) Migrate(ctx context.Context) error {
	return migrations.Apply(ctx, p.pool, p.logger)
}

func (p *postgresDatabase) Status(ctx context.Context) ([]migrations.VersionStatus, error) {
	return migrations.Status(ctx, p.pool)
}

func (p *postgresDatabase) Inspector() schema.Inspector {
	return schema.NewPostgresInspector(p.pool)
}

func (p *postgresDatabase) Close() {
	p.pool.Close()
}

type sqliteDatabase struct {
	db     *sql.DB
	logger *zap.Logger
}

func (s *sqliteDatabase) Migrate(ctx context.Context) error {
	return migrations.ApplySQLite(ctx, s.db, s.logger)
}

func (s *sqliteDatabase) Status(ctx context.Context) ([]migrations.VersionStatus, error) {
	return migrations.StatusSQLite(ctx, s.db)
}

func (s *sqliteDatabase) Inspector() schema.Inspector {
	return schema.NewSQLiteInspector(s.db)
}

func (s *sqliteDatabase) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("failed to close SQLite database", zap.Error(err))
	}
}
