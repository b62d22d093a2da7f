package cmd

import (
	"fmt"
	"os"

	flasky "github.com/gnames/flasky/pkg"
	"github.com/gnames/flasky/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", flasky.Version, flasky.Build)
		os.Exit(0)
	}
}

// serverFlags registers --host and --port of the development server.
func serverFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "interface to listen on (default from config)")
	cmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
}

// serverOpts converts --host and --port to configuration options, when
// they are given.
func serverOpts(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		res = append(res, config.OptServerHost(host))
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		res = append(res, config.OptServerPort(port))
	}
	return res
}
