/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gnames/flasky/internal/ioapp"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getDBCmd returns the db command with its migration subcommands.
func getDBCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage database schema revisions",
		Long: `Manage schema revisions of the database of the selected profile.

Revisions are versioned SQL files embedded into flasky. Applied
revisions are recorded in the schema_versions table.

Examples:
  flasky db upgrade
  flasky db current
  flasky db history
  flasky db vacuum`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	dbCmd.AddCommand(
		&cobra.Command{
			Use:   "upgrade",
			Short: "Apply pending schema revisions",
			Args:  cobra.NoArgs,
			RunE:  runDBUpgrade,
		},
		&cobra.Command{
			Use:   "current",
			Short: "Show the current schema revision",
			Args:  cobra.NoArgs,
			RunE:  runDBCurrent,
		},
		&cobra.Command{
			Use:   "history",
			Short: "List schema revisions",
			Args:  cobra.NoArgs,
			RunE:  runDBHistory,
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Reclaim storage and refresh planner statistics",
			Args:  cobra.NoArgs,
			RunE:  runDBVacuum,
		},
	)

	return dbCmd
}

func runDBUpgrade(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	sm := app.SchemaManager()
	n, err := sm.Upgrade(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	cur, err := sm.Current(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Applied %d revision(s), schema is at <em>%s</em>", n, cur)
	return nil
}

func runDBCurrent(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	cur, err := app.SchemaManager().Current(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if cur != "" {
		fmt.Println(cur)
		return nil
	}

	fmt.Println("none")
	hasTables, err := app.Operator.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if hasTables {
		gn.Warn("Database <em>%s</em> has tables without recorded revisions",
			cfg.Database.Database)
	}
	return nil
}

func runDBHistory(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	revs, err := app.SchemaManager().History(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tAPPLIED\tDESCRIPTION")
	for _, v := range revs {
		applied := "pending"
		if v.Applied {
			applied = v.AppliedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Version, applied, v.Description)
	}
	return w.Flush()
}

func runDBVacuum(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	start := time.Now()
	if err = app.Operator.VacuumAnalyze(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("VACUUM ANALYZE completed in %s",
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}
