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
	"github.com/gnames/flasky/internal/ioprofile"
	"github.com/gnames/flasky/internal/ioweb"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getProfileCmd returns the profile command.
func getProfileCmd() *cobra.Command {
	var length int
	var profileDir string

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Start the application under the code profiler",
		Long: `Start the development server with a CPU profiler around every request.

Requests are served one at a time. After each request the functions
with the most CPU time are printed. With --profile-dir raw profiles are
saved there for "go tool pprof".

For local diagnostics only.

Examples:
  flasky profile
  flasky profile --length 10
  flasky profile --profile-dir tmp/profiles --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Update(serverOpts(cmd))
			return runProfile(length, profileDir)
		},
	}

	profileCmd.Flags().IntVar(&length, "length", ioprofile.DefaultLength,
		"number of functions to include in the profiler report")
	profileCmd.Flags().StringVar(&profileDir, "profile-dir", "",
		"directory where profiler data files are saved")
	serverFlags(profileCmd)

	return profileCmd
}

func runProfile(length int, profileDir string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	h, err := ioprofile.Middleware(app.Handler(), length, profileDir)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Warn("Profiling is on, requests are served one at a time")
	if err = ioweb.Serve(ctx, cfg.Server.Addr(), h); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
