package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/internal/manifest"
	"github.com/dpilch/aws-cdk/internal/synth"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build <manifest>",
		Short: "Generate CloudFormation template from a manifest",
		Long: `Build synthesizes the log retention constructs described by a manifest
into a CloudFormation template.

Examples:
    cdk-logs build manifest.yaml
    cdk-logs build manifest.yaml -o template.json
    cdk-logs build manifest.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(path, format, outputFile string) error {
	template, err := buildTemplate(path)
	if err != nil {
		result := awscdk.BuildResult{Success: false, Errors: []string{err.Error()}}
		data, merr := json.MarshalIndent(result, "", "  ")
		if merr != nil {
			return merr
		}
		fmt.Println(string(data))
		return err
	}

	var data []byte
	switch format {
	case "yaml":
		data, err = synth.ToYAML(template)
	case "json":
		data, err = synth.ToJSON(template)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("serializing template: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outputFile, err)
		}
		fmt.Printf("Wrote %s\n", outputFile)
		return nil
	}
	fmt.Println(string(data))
	return nil
}

// buildTemplate loads a manifest and synthesizes its template.
func buildTemplate(path string) (*awscdk.Template, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	root, err := m.BuildTree()
	if err != nil {
		return nil, err
	}
	return synth.Synthesize(root)
}
