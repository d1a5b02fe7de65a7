package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=... -X main.GitCommit=...".
var (
	Version   = "v0.1.0"
	GitCommit = "unknown"
)

func buildInfo() string {
	var info string
	info += fmt.Sprintln("Version:\t", Version)
	info += fmt.Sprintln("Go version:\t", runtime.Version())
	info += fmt.Sprintln("Git commit:\t", GitCommit)
	info += fmt.Sprintf("OS/Arch:\t %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return info
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), buildInfo())
		},
	}
}
