package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bindConnectionFlags registers the persistent --postgres-url flag and binds
// it into viper under POSTGRES_URL, so the explain subcommand can read it
// from either the flag or the GENQUERY2_POSTGRES_URL environment variable.
func bindConnectionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("postgres-url", "", "Postgres connection URL used by the explain subcommand")

	viper.BindPFlag("POSTGRES_URL", cmd.PersistentFlags().Lookup("postgres-url")) //nolint:errcheck
}

func postgresURL() string {
	return viper.GetString("POSTGRES_URL")
}
