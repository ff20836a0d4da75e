package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/accented-ai/genquery2"
	"github.com/accented-ai/genquery2/internal/sqlgen"
	"github.com/accented-ai/genquery2/internal/tracelog"
	"github.com/accented-ai/genquery2/pkg/database"
)

type explainConfig struct {
	username string
	admin    bool
	rows     uint16
	analyze  bool
	timeout  time.Duration
}

func newExplainCommand() *cobra.Command {
	cfg := &explainConfig{}

	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "Compile a GenQuery2 statement and run EXPLAIN against a live postgres catalog",
		Args:  cobra.ExactArgs(1),
		Example: `  genquery2 explain --postgres-url "$POSTGRES_URL" "select DATA_NAME where COLL_NAME = 'foo'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), cfg, args[0])
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "", "Acting user name, required unless --admin is set")
	cmd.Flags().BoolVar(&cfg.admin, "admin", false, "Compile with administrator permission predicates")
	cmd.Flags().Uint16Var(&cfg.rows, "rows", 256, "Default row limit when the query has no explicit LIMIT")
	cmd.Flags().BoolVar(&cfg.analyze, "analyze", false, "Use EXPLAIN ANALYZE instead of EXPLAIN")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 30*time.Second, "Timeout for the explain round trip")

	return cmd
}

func runExplain(ctx context.Context, cfg *explainConfig, query string) error {
	url := postgresURL()
	if url == "" {
		return fmt.Errorf("--postgres-url (or GENQUERY2_POSTGRES_URL) is required for explain")
	}

	opts := genquery2.Options{
		Username:            cfg.username,
		Database:            genquery2.DialectPostgres,
		DefaultNumberOfRows: cfg.rows,
		AdminMode:           cfg.admin,
	}

	result, err := genquery2.Compile(query, opts, genquery2.WithLogger(tracelog.New()))
	if err != nil {
		return explainCompileError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	pool, err := database.NewPoolFromURL(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	dbName, _ := pool.CurrentDatabase(ctx)
	pterm.Info.Printfln("connected to %s", dbName)

	rewritten := sqlgen.RewritePlaceholders(result.SQL, len(result.Binds))

	plan := "EXPLAIN " + rewritten
	if cfg.analyze {
		plan = "EXPLAIN ANALYZE " + rewritten
	}

	args := make([]any, len(result.Binds))
	for i, b := range result.Binds {
		args[i] = b
	}

	qh := database.NewQueryHelper(pool)

	var lines []string

	err = qh.FetchAll(ctx, plan, func(row pgx.Rows) error {
		var line string

		if err := row.Scan(&line); err != nil {
			return err
		}

		lines = append(lines, line)

		return nil
	}, args...)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Query plan")

	for _, line := range lines {
		fmt.Println(line)
	}

	return nil
}
