package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set by -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Go      string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version: rootCmd.Version,
			Commit:  commit,
			Built:   date,
			Go:      runtime.Version(),
		}
		if jsonOut {
			return printJSON(info)
		}
		printInfo("meshctl %s\n  commit: %s\n  built: %s\n  go: %s\n",
			info.Version, info.Commit, info.Built, info.Go)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
