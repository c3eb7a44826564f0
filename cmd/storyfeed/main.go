// Command storyfeed serves the filterable story listing and runs its
// maintenance tasks.
//
// Exit codes: 0 = success, 1 = error, 2 = check-sync found pending documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/storyfeed/internal/app"
	"github.com/heartmarshall/storyfeed/internal/config"
)

// errSyncRequired makes check-sync exit with code 2.
var errSyncRequired = errors.New("definition sync required")

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storyfeed",
		Short:         "Filterable story listing service",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the YAML config file (default $CONFIG_PATH or "+config.DefaultPath+")")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSyncCmd(),
		newCheckSyncCmd(),
		newTokenCmd(),
	)
	return root
}

// loadConfig reads the file named by --config, falling back to CONFIG_PATH.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errSyncRequired):
		stop()
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
