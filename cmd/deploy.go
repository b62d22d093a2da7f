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
	"time"

	"github.com/gnames/flasky/internal/ioapp"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getDeployCmd returns the deploy command.
func getDeployCmd() *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run deployment tasks",
		Long: `Run deployment tasks against the database of the selected profile.

The tasks run in a fixed order and deployment stops at the first failure:
  1. Upgrade the schema to the latest revision
  2. Create or update user roles
  3. Ensure all users are following themselves

Every task is idempotent, running deploy again is safe.

Examples:
  flasky deploy
  FLASK_CONFIG=production flasky deploy
  flasky deploy -c testing`,
		Args: cobra.NoArgs,
		RunE: runDeploy,
	}

	return deployCmd
}

func runDeploy(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	gn.Info("Deploying to <em>%s</em> (%s profile)",
		cfg.Database.Database, cfg.Profile)

	results, err := app.Deployer().Deploy(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Deployment complete: %d task(s) in %s",
		len(results), gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}
