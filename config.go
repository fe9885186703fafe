package neoqb

import (
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the execution settings shared by a QueryBuilder and the
// transactions it opens.
type Config struct {
	// SessionConfig is used for every session. AccessMode is overridden per
	// query: write mode when the compiled query may modify the graph.
	SessionConfig neo4j.SessionConfig
	// TxConfigurers apply to auto-commit runs and explicit transactions.
	TxConfigurers []func(*neo4j.TransactionConfig)

	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Configurer is a function that configures a Config.
type Configurer func(*Config)

func newConfig(configurers ...Configurer) Config {
	cfg := Config{}
	for _, c := range configurers {
		c(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}
	return cfg
}

// WithDatabase selects the database sessions are opened against.
func WithDatabase(name string) Configurer {
	return func(c *Config) {
		c.SessionConfig.DatabaseName = name
	}
}

// WithSessionConfig configures the sessions opened by the builder.
func WithSessionConfig(configurers ...func(*neo4j.SessionConfig)) Configurer {
	return func(c *Config) {
		for _, configure := range configurers {
			configure(&c.SessionConfig)
		}
	}
}

// WithTxConfig configures the transactions used to run queries.
func WithTxConfig(configurers ...func(*neo4j.TransactionConfig)) Configurer {
	return func(c *Config) {
		c.TxConfigurers = append(c.TxConfigurers, configurers...)
	}
}

func WithLogger(logger *slog.Logger) Configurer {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithTracerProvider(tp trace.TracerProvider) Configurer {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

func WithMeterProvider(mp metric.MeterProvider) Configurer {
	return func(c *Config) {
		c.MeterProvider = mp
	}
}
