package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/backoffice/pkg/migration"
)

// RootCommand is the CLI: serve, migrations, seeding, the route table and
// every command added with Command.
func (a *Application) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           a.name,
		Short:         "Order management back office",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		&cobra.Command{
			Use:     "serve",
			Aliases: []string{"run", "start"},
			Short:   "Start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Run all pending database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.OpenDB()
				if err != nil {
					return err
				}
				return migration.New(db, cmd.OutOrStdout()).Run(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate:rollback",
			Short: "Roll back the last batch of migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.OpenDB()
				if err != nil {
					return err
				}
				return migration.New(db, cmd.OutOrStdout()).Rollback(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate:status",
			Short: "Show which migrations have run",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.OpenDB()
				if err != nil {
					return err
				}
				rows, err := migration.New(db, nil).Status(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
				for _, s := range rows {
					batch := "-"
					if s.Ran {
						batch = fmt.Sprint(s.Batch)
					}
					fmt.Fprintf(w, "%s\t%v\t%s\n", s.Name, s.Ran, batch)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Run the database seeders",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if a.seeder == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No seeders registered.")
					return nil
				}
				db, err := a.OpenDB()
				if err != nil {
					return err
				}
				return a.seeder(cmd.Context(), db, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:     "route:list",
			Aliases: []string{"routes"},
			Short:   "List the named routes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				k, err := (&Application{name: a.name, routes: a.routes}).Kernel(Deps{})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "METHOD\tPATH\tNAME")
				fmt.Fprintln(w, "------\t----\t----")
				for _, ri := range k.Router.Routes() {
					fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
				}
				return w.Flush()
			},
		},
	)

	for _, fn := range a.commands {
		root.AddCommand(fn(a))
	}
	return root
}
