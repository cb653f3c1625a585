// Command cdk-logs synthesizes CloudFormation templates that manage log
// group retention through a shared custom-resource provider.
//
// Usage:
//
//	cdk-logs build manifest.yaml       Generate CloudFormation template
//	cdk-logs validate manifest.yaml    Check the manifest synthesizes
//	cdk-logs graph manifest.yaml       Print the dependency graph
//	cdk-logs watch manifest.yaml       Rebuild on manifest changes
//	cdk-logs version                   Show version
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cdk-logs",
		Short: "Synthesize log retention CloudFormation templates",
		Long: `cdk-logs generates CloudFormation templates from a log group manifest.

Describe the log groups to manage in YAML:

    logGroups:
      - name: /aws/lambda/api
        retentionDays: 14

Then generate the template:

    cdk-logs build manifest.yaml`,
	}

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newGraphCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cdk-logs %s\n", getVersion())
		},
	}
}

// version can be set via ldflags: -ldflags "-X main.version=v1.0.0"
// If not set, getVersion() will try to read from build info.
var version = ""

// getVersion returns the version string.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}
