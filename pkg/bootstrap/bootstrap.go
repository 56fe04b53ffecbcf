// Package bootstrap builds the process-wide dependencies shared by the binaries:
// the structured logger and the PostgreSQL connection pool.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abgdnv/productboard/pkg/config"
	"github.com/abgdnv/productboard/pkg/logger"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/natefinch/lumberjack"
)

// NewLogger creates a JSON slog.Logger writing to stdout.
// Records carry request and trace IDs taken from the context.
// When cfg.File is set the stream is also written to a size-rotated file.
func NewLogger(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	return NewLoggerTo(os.Stdout, cfg)
}

// NewLoggerTo is NewLogger with an explicit console writer.
func NewLoggerTo(console io.Writer, cfg config.LogConfig) (*slog.Logger, io.Closer) {
	logLevel := toLevel(cfg.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}

	out := console
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		out = io.MultiWriter(console, fileWriter)
		closer = fileWriter
	}

	logHandler := logger.NewContextHandler(slog.NewJSONHandler(out, loggerOpts))
	return slog.New(logHandler), closer
}

// NewDbPool creates a new database connection pool with the provided context and configuration.
// Queries are traced through OpenTelemetry; the tracer is a no-op until a provider is installed.
func NewDbPool(ctx context.Context, url string, connectTimeout time.Duration) (*pgxpool.Pool, error) {
	poolCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pgxConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, errPool := pgxpool.NewWithConfig(poolCtx, pgxConfig)
	if errPool != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", errPool)
	}
	// Ping the database to ensure the connection is established (fail early if not)
	if err := dbPool.Ping(poolCtx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbPool, nil
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
