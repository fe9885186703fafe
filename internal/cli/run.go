package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"

	neoqb "github.com/SebastianOsuna/neo4j-qb"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	URI      string
	User     string
	Password string
	Database string
	Trace    bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Run a plan against Neo4j and print the records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.URI, "uri", envOr("NEO4J_URI", "bolt://localhost:7687"), "bolt URI")
	cmd.Flags().StringVar(&opts.User, "user", envOr("NEO4J_USER", "neo4j"), "user name")
	cmd.Flags().StringVar(&opts.Password, "password", os.Getenv("NEO4J_PASSWORD"), "password")
	cmd.Flags().StringVar(&opts.Database, "database", "", "database name")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print spans and query metrics to stderr")

	return cmd
}

var newDriver = func(uri, user, password string) (neo4j.DriverWithContext, error) {
	return neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runPlan(ctx context.Context, opts *RunOptions, path string, cmd *cobra.Command) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cy, err := compilePlan(path)
	if err != nil {
		return err
	}

	configurers := []neoqb.Configurer{neoqb.WithLogger(opts.logger(cmd.ErrOrStderr()))}
	if opts.Database != "" {
		configurers = append(configurers, neoqb.WithDatabase(opts.Database))
	}
	if opts.Trace {
		tel, telErr := newTelemetry(cmd.ErrOrStderr())
		if telErr != nil {
			return telErr
		}
		defer func() {
			err = errors.Join(err, tel.Shutdown(context.WithoutCancel(ctx)))
		}()
		configurers = append(configurers,
			neoqb.WithTracerProvider(tel.TracerProvider),
			neoqb.WithMeterProvider(tel.MeterProvider),
		)
	}

	driver, err := newDriver(opts.URI, opts.User, opts.Password)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", opts.URI, err)
	}
	defer func() {
		err = errors.Join(err, driver.Close(context.WithoutCancel(ctx)))
	}()

	resp, err := neoqb.New(driver, configurers...).ExecCompiled(ctx, cy)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(resp.Value(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(js))
	return err
}
