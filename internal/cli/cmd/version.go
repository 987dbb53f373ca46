package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftwork/weft/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	fmt.Printf("weft %s\n", buildInfo.Version)
	fmt.Printf("  commit:     %s\n", buildInfo.Commit)
	fmt.Printf("  built:      %s\n", buildInfo.BuildDate)
	fmt.Printf("  go version: %s\n", buildInfo.GoVersion)
	fmt.Printf("  repository: %s\n", build.RepoURL())
	return nil
}
