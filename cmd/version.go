package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/stuttgart-things/kubeseal-auto/internal/release"
)

// Set at build time with -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit SHA, build date and platform of kubeseal-auto.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(logo)
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", commit)
		fmt.Printf("Build Date: %s\n", buildDate)
		fmt.Printf("Platform:   %s\n", platformString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func platformString() string {
	p, err := release.CurrentPlatform()
	if err != nil {
		return fmt.Sprintf("%s/%s (no kubeseal release)", runtime.GOOS, runtime.GOARCH)
	}
	return p.OS + "/" + p.Arch
}
