package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
	"github.com/Hustlehub34/Sporto-sub000/internal/utils"
)

// NewTokenCmd mints a bearer token for local testing of the owner and
// customer endpoints.
func NewTokenCmd() *cobra.Command {
	var secret, sub, role, name string
	var ttl time.Duration
	c := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = envOr("JWT_SECRET", "")
			}
			role = strings.ToUpper(role)
			if role != middleware.RoleOwner && role != middleware.RoleCustomer {
				return fmt.Errorf("role must be %s or %s", middleware.RoleOwner, middleware.RoleCustomer)
			}
			tok, err := utils.NewAccessToken(secret, sub, role, name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}
	c.Flags().StringVar(&secret, "secret", "", "signing secret (default $JWT_SECRET)")
	c.Flags().StringVar(&sub, "sub", "", "subject (user id)")
	c.Flags().StringVar(&role, "role", middleware.RoleCustomer, "OWNER or CUSTOMER")
	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = c.MarkFlagRequired("sub")
	return c
}
