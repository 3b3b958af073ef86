package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/simonhull/heron/internal/config"
	"github.com/simonhull/heron/internal/filesystem"
	"github.com/simonhull/heron/internal/generator"
	"github.com/simonhull/heron/internal/logger"
	"github.com/simonhull/heron/internal/output"
	"github.com/simonhull/heron/internal/pipeline"
	"github.com/simonhull/heron/internal/schema"
	"github.com/spf13/cobra"
)

// loadConfig resolves heron.yml, env and flags, then installs the default
// logger accordingly. An explicit --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	} else {
		path = config.DefaultPath
	}

	cfg, err := config.LoadConfig(path, cmd.Flags())
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && level > logger.LevelDebug {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(logger.Options{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		JSON:   cfg.Log.JSON,
		Prefix: "heron",
	}))

	output.Verbose(fmt.Sprintf("config: tag=%s output=%s strict=%v register=%v",
		cfg.Tag, cfg.Output, cfg.Strict, cfg.Register))
	return cfg, nil
}

// addPipelineFlags registers the flags shared by generate, check and watch.
// Unset flags fall back to heron.yml.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", "", "Struct tag and directive prefix (default meili)")
	cmd.Flags().StringP("output", "o", "", "Generated file name inside each package (default meili_index_gen.go)")
	cmd.Flags().Bool("strict", false, "Report malformed annotations instead of ignoring them")
	cmd.Flags().Bool("register", false, "Emit an init() registering every provider")
}

// conflictResolver decides what happens to output files heron did not
// write. Without --force or --skip the user is asked when stdin and stdout
// are terminals; otherwise such files fail the run.
func conflictResolver(cmd *cobra.Command, force, skip bool) (*generator.Resolver, error) {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	return generator.NewResolver(generator.ResolverOptions{
		Force:       force,
		Skip:        skip,
		Interactive: generator.IsTerminal(in) && generator.IsTerminal(out),
		In:          in,
		Out:         out,
	})
}

func newRunner(cfg *config.Config) *pipeline.Runner {
	return pipeline.NewRunner(pipeline.Options{
		Tag:      cfg.Tag,
		Output:   cfg.Output,
		Strict:   cfg.Strict,
		Register: cfg.Register,
	}).WithLogger(logger.Default())
}

// runPipeline expands package arguments and runs the pipeline over them.
func runPipeline(ctx context.Context, cfg *config.Config, args []string) (*pipeline.Result, error) {
	dirs, err := filesystem.ExpandPatterns(args)
	if err != nil {
		return nil, err
	}
	output.Verbose(fmt.Sprintf("packages: %v", dirs))

	return newRunner(cfg).Run(ctx, dirs)
}

// reportDiagnostics prints every diagnostic and returns a summary error when
// there is at least one.
func reportDiagnostics(diags schema.Diagnostics) error {
	if len(diags) == 0 {
		return nil
	}
	for _, d := range diags {
		output.Error(d.Error())
	}
	return fmt.Errorf("%d annotated type(s) failed validation", len(diags))
}
