package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	awscdk "github.com/dpilch/aws-cdk"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Check that a manifest synthesizes cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(path string) error {
	result := awscdk.ValidateResult{Success: true}

	template, err := buildTemplate(path)
	if err != nil {
		result.Success = false
		result.Errors = []string{err.Error()}
	} else {
		result.Resources = len(template.Resources)
	}

	data, merr := json.MarshalIndent(result, "", "  ")
	if merr != nil {
		return merr
	}
	fmt.Println(string(data))

	if !result.Success {
		return fmt.Errorf("validation failed")
	}
	return nil
}
