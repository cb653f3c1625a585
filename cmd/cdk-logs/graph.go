package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dpilch/aws-cdk/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var (
		format  string
		cluster bool
	)

	cmd := &cobra.Command{
		Use:   "graph <manifest>",
		Short: "Print the resource dependency graph",
		Long: `Graph synthesizes the manifest and prints the dependency graph between
generated resources.

Examples:
    cdk-logs graph manifest.yaml
    cdk-logs graph manifest.yaml --format mermaid
    cdk-logs graph manifest.yaml --cluster`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(args[0], format, cluster)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&cluster, "cluster", false, "Group resources by service type")

	return cmd
}

func runGraph(path, format string, cluster bool) error {
	template, err := buildTemplate(path)
	if err != nil {
		return err
	}

	gen := &graph.Generator{
		Format:        graph.Format(format),
		ClusterByType: cluster,
	}
	return gen.Generate(template, os.Stdout)
}
