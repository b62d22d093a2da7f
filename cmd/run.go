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
	"github.com/gnames/flasky/internal/ioapp"
	"github.com/gnames/flasky/internal/ioweb"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getRunCmd returns the run command.
func getRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the development server",
		Long: `Start the development server of the read-only JSON API.

Routes:
  GET /                             application info
  GET /api/v1/posts                 latest posts
  GET /api/v1/users/{id}            a user
  GET /api/v1/users/{id}/followers  followers of a user

Examples:
  flasky run
  flasky run --host 0.0.0.0 --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Update(serverOpts(cmd))
			return runServer()
		},
	}

	serverFlags(runCmd)

	return runCmd
}

func runServer() error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	if err = ioweb.Serve(ctx, cfg.Server.Addr(), app.Handler()); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
