package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/accented-ai/genquery2/internal/util"
)

// BuildInfo carries version metadata baked in at link time via -ldflags,
// threaded from main into the version subcommand.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Execute builds the root command and runs it against os.Args.
func Execute(ctx context.Context, info BuildInfo) error {
	viper.SetEnvPrefix("GENQUERY2")
	viper.AutomaticEnv()

	rootCmd := newRootCommand()
	bindConnectionFlags(rootCmd)

	rootCmd.AddCommand(
		newCompileCommand(),
		newExplainCommand(),
		newVersionCommand(info),
	)

	return util.WrapError("execute command", rootCmd.ExecuteContext(ctx))
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "genquery2",
		Short: "GenQuery2 compiler and catalog query runner",
		Long: `genquery2 compiles GenQuery2 statements into parameterized SQL and,
optionally, runs the compiled statement against a live catalog database to
inspect the generated plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("genquery2 %s\n", info.Version)
			fmt.Printf("  commit:     %s\n", info.Commit)
			fmt.Printf("  built:      %s\n", info.BuildTime)
		},
	}
}
