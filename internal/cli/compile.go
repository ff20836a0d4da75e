package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/accented-ai/genquery2"
	"github.com/accented-ai/genquery2/internal/tracelog"
)

type compileConfig struct {
	dialect   string
	username  string
	admin     bool
	rows      uint16
	noValidate bool
	verbose   bool
	quiet     bool
}

func newCompileCommand() *cobra.Command {
	cfg := &compileConfig{}

	cmd := &cobra.Command{
		Use:   "compile <query>",
		Short: "Compile a GenQuery2 statement into parameterized SQL",
		Args:  cobra.ExactArgs(1),
		Example: `  # Compile against the default postgres dialect
  genquery2 compile "select DATA_NAME, COLL_NAME where COLL_NAME = 'foo'"

  # Compile for mysql as a non-admin user
  genquery2 compile --dialect mysql --username alice "select DATA_NAME"`,
		RunE: func(_ *cobra.Command, args []string) error {
			return runCompile(cfg, args[0])
		},
	}

	cmd.Flags().StringVar(&cfg.dialect, "dialect", "postgres", "Target SQL dialect: postgres, mysql, or oracle")
	cmd.Flags().StringVar(&cfg.username, "username", "", "Acting user name, required unless --admin is set")
	cmd.Flags().BoolVar(&cfg.admin, "admin", false, "Compile with administrator permission predicates")
	cmd.Flags().Uint16Var(&cfg.rows, "rows", 256, "Default row limit when the query has no explicit LIMIT")
	cmd.Flags().BoolVar(&cfg.noValidate, "no-validate", false, "Skip postgres syntax validation of the generated SQL")
	cmd.Flags().BoolVarP(&cfg.verbose, "verbose", "v", false, "Emit compile trace logs to stderr")
	cmd.Flags().BoolVarP(&cfg.quiet, "quiet", "q", false, "Print only the generated SQL, no bind table")

	return cmd
}

func runCompile(cfg *compileConfig, query string) error {
	opts := genquery2.Options{
		Username:            cfg.username,
		Database:            genquery2.Dialect(cfg.dialect),
		DefaultNumberOfRows: cfg.rows,
		AdminMode:           cfg.admin,
	}

	if cfg.noValidate {
		no := false
		opts.ValidateGeneratedSQL = &no
	}

	var applyOpts []genquery2.Option
	if cfg.verbose {
		applyOpts = append(applyOpts, genquery2.WithLogger(tracelog.New()))
	}

	result, err := genquery2.Compile(query, opts, applyOpts...)
	if err != nil {
		return explainCompileError(err)
	}

	if cfg.quiet {
		fmt.Println(result.SQL)
		return nil
	}

	pterm.DefaultSection.Println("Generated SQL")
	fmt.Println(result.SQL)

	if len(result.Binds) == 0 {
		return nil
	}

	tableData := pterm.TableData{{"#", "value"}}
	for i, v := range result.Binds {
		tableData = append(tableData, []string{strconv.Itoa(i + 1), v})
	}

	pterm.DefaultSection.Println("Bind values")

	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// explainCompileError prints the CompileErrorKind alongside the error text,
// so a script grepping the CLI's stderr can switch on a stable string
// instead of parsing free-form prose.
func explainCompileError(err error) error {
	if ce, ok := err.(genquery2.CompileError); ok {
		return fmt.Errorf("%s: %w", ce.CompileErrorKind(), err)
	}

	return err
}
