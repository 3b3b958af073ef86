package commands

import (
	"github.com/simonhull/heron"
	"github.com/simonhull/heron/internal/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the heron CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "heron",
		Short: "Generate Meilisearch index settings from annotated Go structs",
		Long: `heron reads //meili:index directives and meili struct tags and
generates an indexconfig.Provider for every annotated struct.

Use it from go:generate:

  //go:generate heron generate

Annotations:
  //meili:index indexName="movies" maxTotalHits=1000
  type Movie struct {
      ID    string ` + "`meili:\"primaryKey\"`" + `
      Title string ` + "`meili:\"displayed,searchable,sortable\"`" + `
  }`,
		Version:       heron.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			output.SetOutput(cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default heron.yml if present)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error, silent")
	cmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	return cmd
}

// NewApp builds the root command with every subcommand attached.
func NewApp() *cobra.Command {
	root := RootCmd()
	root.AddCommand(
		GenerateCmd(),
		CheckCmd(),
		WatchCmd(),
		InitCmd(),
		VersionCmd(),
	)
	return root
}
