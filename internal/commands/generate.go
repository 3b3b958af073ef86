package commands

import (
	"context"
	"fmt"

	"github.com/simonhull/heron/internal/config"
	"github.com/simonhull/heron/internal/generator"
	"github.com/simonhull/heron/internal/output"
	"github.com/spf13/cobra"
)

// GenerateCmd creates and returns the 'generate' command
func GenerateCmd() *cobra.Command {
	var force, skip, diff, dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Generate index providers for annotated structs",
		Long: `Generate one file per package holding an indexconfig.Provider for
every struct carrying a //meili:index directive.

Packages default to the current directory; "./..." recurses. Types that
fail validation are reported and skipped, the rest are still generated,
and the command exits non-zero.

A file at the output path that was not generated by heron is never
replaced silently. On a terminal heron asks what to do; otherwise the run
fails unless --force (overwrite) or --skip (keep the file) is given.

Examples:
  heron generate
  heron generate ./...
  heron generate ./models --register
  heron generate --dry-run --diff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("dry-run=%v force=%v skip=%v diff=%v", dryRun, force, skip, diff))

			resolver, err := conflictResolver(cmd, force, skip)
			if err != nil {
				return err
			}

			return runGenerate(cmd.Context(), cfg, args, generator.ExecuteOptions{
				DryRun:   dryRun,
				Force:    force,
				Diff:     diff,
				Writer:   cmd.OutOrStdout(),
				Resolver: resolver,
			})
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without writing files")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that were not generated by heron")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep files that were not generated by heron")
	cmd.Flags().BoolVar(&diff, "diff", false, "Print a unified diff for every changed file")

	return cmd
}

// runGenerate runs the pipeline once and applies its operations. Valid
// types are written even when others produced diagnostics.
func runGenerate(ctx context.Context, cfg *config.Config, args []string, opts generator.ExecuteOptions) error {
	result, err := runPipeline(ctx, cfg, args)
	if err != nil {
		return err
	}

	if err := generator.Execute(ctx, result.Operations(), opts); err != nil {
		return err
	}

	if err := reportDiagnostics(result.Diagnostics()); err != nil {
		return err
	}

	output.Success(fmt.Sprintf("%d index provider(s) in %d package(s)", result.Descriptors(), len(result.Packages)))
	return nil
}
