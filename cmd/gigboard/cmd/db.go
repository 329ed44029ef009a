package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/carlosnayan/gigboard/db"
	"github.com/carlosnayan/gigboard/internal/migrations"
)

var (
	pushDryRun     bool
	pushForceReset bool
	healthTimeout  time.Duration
	schemaWrite    bool
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database schema",
}

var dbPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Create missing tables, columns and indexes",
	Long: `Push brings the database in line with the marketplace schema without
migration files. Existing data is kept unless --force-reset is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		s := client.Session()
		if pushForceReset && !pushDryRun {
			fmt.Fprintln(cmd.OutOrStdout(), Warning("Dropping every table of the schema."))
		}
		res, err := migrations.Push(ctx, s.DB(), db.Schema, s.Dialect(), migrations.PushOptions{
			DryRun:     pushDryRun,
			ForceReset: pushForceReset,
		})
		if err != nil {
			return fmt.Errorf("db push: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, res.Diff.Format())
		if pushDryRun {
			for _, stmt := range res.Statements {
				fmt.Fprintln(out, Info(stmt+";"))
			}
			fmt.Fprintf(out, "%d statement(s) would run.\n", len(res.Statements))
			return nil
		}
		if res.Applied {
			fmt.Fprintln(out, Success(fmt.Sprintf("Your database is now in sync with the schema (%d statements).", len(res.Statements))))
		}
		return nil
	},
}

var dbSQLCmd = &cobra.Command{
	Use:   "sql",
	Short: "Print the CREATE statements for the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Disconnect()

		stmts, err := migrations.GenerateSQL(db.Schema, client.Session().Dialect())
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", stmt)
		}
		return nil
	},
}

var dbHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the database connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		s := client.Session()
		check, err := migrations.CheckHealth(ctx, s.DB(), s.Dialect(), healthTimeout)
		if check != nil {
			check.Print(cmd.OutOrStdout())
		}
		return err
	},
}

var dbTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		s := client.Session()
		tables, err := migrations.ListTables(ctx, s.DB(), s.Dialect())
		if err != nil {
			return err
		}
		known := map[string]bool{}
		for _, m := range db.Schema.Models {
			known[m.Name] = true
		}
		for _, t := range tables {
			if known[t] {
				fmt.Fprintln(cmd.OutOrStdout(), Highlight(t))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), Info(t+" (not in schema)"))
			}
		}
		return nil
	},
}

var dbSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Render the schema as schema.prisma",
	Long: `Schema prints the marketplace schema in Prisma schema language for the
configured provider. With --write it is saved to the path of the
configuration's schema key instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src := db.Schema.Prisma(cfg.GetProvider())
		if !schemaWrite {
			fmt.Fprint(cmd.OutOrStdout(), src)
			return nil
		}
		path := cfg.Schema
		if !filepath.IsAbs(path) && cfg.Path() != "" {
			path = filepath.Join(filepath.Dir(cfg.Path()), path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), Success("Wrote "+path))
		return nil
	},
}

func init() {
	dbPushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Print the statements without executing them")
	dbPushCmd.Flags().BoolVar(&pushForceReset, "force-reset", false, "Drop the schema's tables before pushing")
	dbSchemaCmd.Flags().BoolVar(&schemaWrite, "write", false, "Write to the configured schema path")
	dbHealthCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "Health check timeout")

	dbCmd.AddCommand(dbPushCmd, dbSQLCmd, dbSchemaCmd, dbHealthCmd, dbTablesCmd)
}
