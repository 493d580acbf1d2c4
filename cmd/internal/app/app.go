// Package app wires the tenant configuration, connection pools and sessions
// shared by every schemaroute command.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"

	"github.com/stokaro/schemaroute/config"
	"github.com/stokaro/schemaroute/dbschema"
	"github.com/stokaro/schemaroute/session"
	"github.com/stokaro/schemaroute/tenant"
)

// ConnectionStringEnv overrides the default connection string of the
// configuration file when set.
const ConnectionStringEnv = "SCHEMAROUTE_CONNECTION_STRING"

// Common flags
const (
	ConfigFlag   = "config"
	LogLevelFlag = "log-level"
)

// Flags returns the flags every command registers.
func Flags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		ConfigFlag: &cobraflags.StringFlag{
			Name:  ConfigFlag,
			Value: "schemaroute.yaml",
			Usage: "Tenant configuration file (YAML, JSON or TOML)",
		},
		LogLevelFlag: &cobraflags.StringFlag{
			Name:  LogLevelFlag,
			Value: "info",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

// App holds the services built from the configuration.
type App struct {
	Config   *config.TenantConfiguration
	Provider *tenant.ConfigProvider
	Registry *dbschema.Registry
	Factory  *session.Factory
	Logger   *slog.Logger
}

// New loads the configuration named by flags and builds the services. Logs go
// to w.
func New(flags map[string]cobraflags.Flag, w io.Writer) (*App, error) {
	logger, err := NewLogger(flags[LogLevelFlag].GetString(), w)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFile(flags[ConfigFlag].GetString())
	if err != nil {
		return nil, err
	}
	if cs := strings.TrimSpace(os.Getenv(ConnectionStringEnv)); cs != "" {
		cfg.ConnectionString = cs
	}

	return NewWithConfig(cfg, logger)
}

// NewWithConfig builds the services for cfg.
func NewWithConfig(cfg *config.TenantConfiguration, logger *slog.Logger, opts ...dbschema.RegistryOption) (*App, error) {
	provider, err := tenant.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	registry := dbschema.NewRegistry(opts...)
	registry.WithLogger(logger)

	return &App{
		Config:   cfg,
		Provider: provider,
		Registry: registry,
		Factory:  session.NewFactory(provider, registry).WithLogger(logger),
		Logger:   logger,
	}, nil
}

// Close closes every connection pool.
func (a *App) Close() error {
	return a.Registry.Close()
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
