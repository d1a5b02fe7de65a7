package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/report"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect stored validation reports",
	}
	cmd.PersistentFlags().String("store", "", "override report.storePath")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			recs, err := store.List()
			if err != nil {
				return err
			}
			return report.RenderList(cmd.OutOrStdout(), recs)
		},
	}
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the per-fold scores of a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			rec, err := store.Get(args[0])
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), rec)
		},
	}
	cmd.AddCommand(list, show)
	return cmd
}

func openStore(cmd *cobra.Command) (*report.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path := cfg.Report.StorePath
	if cmd.Flags().Changed("store") {
		path, _ = cmd.Flags().GetString("store")
	}
	if path == "" {
		return nil, errors.NewInvalidArgumentError("report.storePath", "must be set to read reports", path)
	}
	return report.Open(path)
}
