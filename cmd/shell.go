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
	"os"

	"github.com/gnames/flasky/internal/ioapp"
	"github.com/gnames/flasky/internal/ioshell"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getShellCmd returns the shell command.
func getShellCmd() *cobra.Command {
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Run an interactive shell in the application context",
		Long: `Run an interactive shell with the application context preloaded:
db, User, Follow, Role, Permission, Post and Comment.

Commands inside the shell:
  names, count <Name>, first <Name>, Permission, help, exit

Examples:
  flasky shell
  echo "count User" | flasky shell`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}

	return shellCmd
}

func runShell(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, err := ioapp.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer app.Close()

	sh := ioshell.New(app.ShellContext(), os.Stdin, os.Stdout)
	if err = sh.Run(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
