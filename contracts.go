// Package awscdk provides Go construct types that synthesize CloudFormation
// templates.
//
// Constructs form a tree of scopes; concrete resources hang off the tree and
// are rendered into a Template by the synthesizer:
//
//	root := constructs.NewRoot("Stack")
//	logs.NewLogRetention(root, "ApiLogs", logs.LogRetentionProps{
//	    LogGroupName: "/aws/lambda/api",
//	    Retention:    logs.TwoWeeks,
//	})
//	tmpl, _ := synth.Synthesize(root)
//
// The cdk-logs CLI builds the same tree from a YAML manifest.
package awscdk

import (
	"encoding/json"
)

// Renderable is implemented by property values that are resolved at
// synthesis time rather than at construction time. The synthesizer replaces
// the value with the result of Render.
type Renderable interface {
	Render() any
}

// AttrRef represents a GetAtt reference to a resource attribute.
//
// When serialized to CloudFormation JSON, AttrRef becomes:
//
//	{"Fn::GetAtt": ["MyRole", "Arn"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "Arn")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// Render returns the GetAtt map form, used by YAML serialization and by
// property transforms that cannot go through MarshalJSON.
func (a AttrRef) Render() any {
	return map[string]any{
		"Fn::GetAtt": []string{a.Resource, a.Attribute},
	}
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// RemovalPolicy controls what happens to a resource when its definition is
// removed from the template.
type RemovalPolicy string

const (
	// RemovalPolicyRetain keeps the resource. This is the default.
	RemovalPolicyRetain RemovalPolicy = "Retain"
	// RemovalPolicyDestroy deletes the resource.
	RemovalPolicyDestroy RemovalPolicy = "Destroy"
)

// Tag is a single key/value pair in a resource tag list.
type Tag struct {
	Key   string `json:"Key" yaml:"Key"`
	Value string `json:"Value" yaml:"Value"`
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any    `json:"Value" yaml:"Value"`
	Export      *struct {
		Name string `json:"Name" yaml:"Name"`
	} `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// BuildResult is the JSON output from `cdk-logs build`.
type BuildResult struct {
	Success  bool      `json:"success"`
	Template *Template `json:"template,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
}

// ValidateResult is the JSON output from `cdk-logs validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
}
