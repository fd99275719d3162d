// Package cli implements sportoctl, the operator tool that sits next to
// the API server.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRoot builds the sportoctl command tree.  A .env file, when present,
// is loaded first so it can supply flag defaults.
func NewRoot() *cobra.Command {
	_ = godotenv.Load()
	cmd := &cobra.Command{
		Use:           "sportoctl",
		Short:         "Sporto turf booking operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewTokenCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewVenuesCmd())
	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
