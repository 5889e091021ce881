package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Populated through -ldflags by the release build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zmusic version",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildInfo{
			Version:   Version,
			Commit:    Commit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}

		if JSONOutput() {
			out, _ := json.MarshalIndent(info, "", "  ")
			fmt.Println(string(out))
			return
		}

		fmt.Printf("zmusic %s\n", info.Version)
		if Verbose() {
			fmt.Printf("  commit %s, built %s\n", info.Commit, info.BuildDate)
			fmt.Printf("  %s on %s\n", info.GoVersion, info.Platform)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
