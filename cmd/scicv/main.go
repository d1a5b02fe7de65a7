// Command scicv cross-validates a baseline estimator on a CSV dataset and
// keeps a history of the results.
//
//	scicv validate -c scicv.yaml
//	scicv report list -c scicv.yaml
//	scicv report show <id> -c scicv.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scicv/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "scicv:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "scicv",
		Short:         "Cross-validate estimators on tabular datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "configuration file path (defaults to $SCICV_CONFIG)")
	root.PersistentFlags().String("log-level", "", "override log.level (debug, info, warn, error)")
	root.AddCommand(newValidateCommand(), newReportCommand(), newVersionCommand())
	return root
}

// loadConfig reads the configuration named by --config and applies the
// persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}
