package commands

import (
	"fmt"

	"github.com/simonhull/heron/internal/generator"
	"github.com/simonhull/heron/internal/output"
	"github.com/spf13/cobra"
)

// CheckCmd creates and returns the 'check' command
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Verify generated files are up to date",
		Long: `Run the generator without writing anything. Fails when an annotated
type is invalid or when a generated file is missing or stale, printing a
unified diff of what 'heron generate' would change.

Suited for CI:
  heron check ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			result, err := runPipeline(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}

			diagErr := reportDiagnostics(result.Diagnostics())

			pending, err := generator.Pending(cmd.Context(), result.Operations())
			if err != nil {
				return err
			}
			for _, op := range pending {
				output.Warn(op.Description())
				if change, ok := op.(generator.Change); ok {
					if err := generator.WriteDiff(cmd.OutOrStdout(), change.Diff()); err != nil {
						return err
					}
				}
			}

			switch {
			case diagErr != nil:
				return diagErr
			case len(pending) > 0:
				return fmt.Errorf("%d generated file(s) out of date, run 'heron generate'", len(pending))
			}

			output.Success(fmt.Sprintf("%d index provider(s) up to date", result.Descriptors()))
			return nil
		},
	}

	addPipelineFlags(cmd)
	return cmd
}
