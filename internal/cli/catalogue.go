package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hustlehub34/Sporto-sub000/internal/database"
	"github.com/Hustlehub34/Sporto-sub000/internal/model"
	"github.com/Hustlehub34/Sporto-sub000/internal/repository"
)

type dbFlags struct {
	user, pass, host, port, name string
}

func (f *dbFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.user, "db-user", envOr("DB_USER", "root"), "database user")
	c.Flags().StringVar(&f.pass, "db-pass", envOr("DB_PASS", ""), "database password")
	c.Flags().StringVar(&f.host, "db-host", envOr("DB_HOST", "localhost"), "database host")
	c.Flags().StringVar(&f.port, "db-port", envOr("DB_PORT", "3306"), "database port")
	c.Flags().StringVar(&f.name, "db-name", envOr("DB_NAME", "sporto"), "database name")
}

// NewMigrateCmd applies the venue catalogue migrations.
func NewMigrateCmd() *cobra.Command {
	var db dbFlags
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply venue catalogue migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			conn, err := database.Open(db.user, db.pass, db.host, db.port, db.name)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := database.Migrate(ctx, conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	db.bind(c)
	return c
}

// NewVenuesCmd lists the venue catalogue.  Without --mysql it prints the
// built-in sample turfs.
func NewVenuesCmd() *cobra.Command {
	var db dbFlags
	var fromMySQL bool
	c := &cobra.Command{
		Use:   "venues",
		Short: "List venues",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			var venues []model.Venue
			if fromMySQL {
				conn, err := database.Open(db.user, db.pass, db.host, db.port, db.name)
				if err != nil {
					return err
				}
				defer conn.Close()
				if venues, err = repository.NewVenueRepo(conn).ListVenues(ctx); err != nil {
					return err
				}
			} else {
				mem, err := repository.NewMemoryVenues(repository.SampleVenues()...)
				if err != nil {
					return err
				}
				venues, _ = mem.ListVenues(ctx)
			}
			return printVenues(cmd, venues)
		},
	}
	c.Flags().BoolVar(&fromMySQL, "mysql", false, "read the MySQL catalogue")
	db.bind(c)
	return c
}

func printVenues(cmd *cobra.Command, venues []model.Venue) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOWNER\tNAME\tSPORT\tHOURS\tBASE")
	for _, v := range venues {
		hours := model.Interval{Start: v.OpensAt, End: v.ClosesAt}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", v.ID, v.OwnerID, v.Name, v.Sport, hours, v.BasePrice)
	}
	return w.Flush()
}
