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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/flasky/internal/ioconfig"
	"github.com/gnames/flasky/internal/iofs"
	"github.com/gnames/flasky/internal/iologger"
	flasky "github.com/gnames/flasky/pkg"
	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	profile string
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", flasky.Version, flasky.Build),
		Use:     "flasky",
		Short:   "Flasky manages the lifecycle of the flasky web application",
		Long: `Flasky manages the lifecycle of the flasky social blogging application:
PostgreSQL schema migrations, deployment, tests with coverage,
request profiling and an interactive shell.

Configuration profiles (FLASK_CONFIG or --config):
  development   database flasky_dev, DEV_DATABASE_URL (default)
  testing       database flasky_test, TEST_DATABASE_URL
  production    database flasky, DATABASE_URL

Configuration precedence (highest to lowest):
  1. CLI flags (--host, --port, etc.)
  2. Environment variables (FLASKY_*)
  3. Config file (~/.config/flasky/config.yaml)
  4. Profile defaults
  5. Built-in defaults

A .env file in the current directory is loaded into the environment
first. Variables that are already set are not overridden.

Environment Variables:
  FLASKY_DATABASE_HOST       PostgreSQL host
  FLASKY_DATABASE_PORT       PostgreSQL port
  FLASKY_DATABASE_USER       PostgreSQL user
  FLASKY_DATABASE_PASSWORD   PostgreSQL password
  FLASKY_DATABASE_DATABASE   Database name
  FLASKY_LOG_LEVEL           Log level (debug/info/warn/error)
  FLASKY_SERVER_PORT         Port of the development server`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "flasky version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for flasky")

	rootCmd.PersistentFlags().StringVarP(&profile, "config", "c", "",
		"configuration profile (default: FLASK_CONFIG or development)")

	rootCmd.AddCommand(
		getDeployCmd(),
		getDBCmd(),
		getTestCmd(),
		getProfileCmd(),
		getRunCmd(),
		getShellCmd(),
		getConfigCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	loaded, err := iofs.LoadDotEnv(".")
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	created, err := iofs.PrepareHome(homeDir)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	for _, v := range created {
		slog.Info("Created", "path", v)
	}

	name := profile
	if name == "" {
		name = ioconfig.ProfileName()
	}
	if cfg, err = ioconfig.Load(homeDir, name); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"profile", cfg.Profile,
		"config_file", config.ConfigFilePath(homeDir),
		"dotenv", loaded,
	)
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// exitCodeError carries the exit status of a child process to Execute.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	var exitErr exitCodeError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		os.Exit(exitErr.code)
	default:
		os.Exit(1)
	}
}
