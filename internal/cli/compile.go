package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SebastianOsuna/neo4j-qb/internal"
	"github.com/SebastianOsuna/neo4j-qb/plan"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <plan.yaml>",
		Short: "Print the Cypher and parameters of a plan",
		Long: `Compile a YAML query plan without connecting to a database.

The query is printed on the first line, followed by its parameters as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cy, err := compilePlan(args[0])
			if err != nil {
				return err
			}
			rootOpts.logger(cmd.ErrOrStderr()).Debug("compiled plan", "file", args[0], "params", len(cy.Parameters))
			return plan.Render(cmd.OutOrStdout(), cy)
		},
	}
}

func compilePlan(path string) (*internal.CompiledCypher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := plan.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cy, err := p.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cy, nil
}
