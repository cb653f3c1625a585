// Package synth renders a construct tree into a CloudFormation template.
package synth

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/constructs"
)

// Synthesize walks the tree rooted at root and produces the template. The
// pass fails as a whole on logical id collisions or dependency cycles; no
// partial template is returned.
func Synthesize(root *constructs.Construct) (*awscdk.Template, error) {
	resources := constructs.Resources(root)

	// Logical ids must be unique across the tree.
	paths := make(map[string]string)
	for _, r := range resources {
		id := r.LogicalID()
		if id == "" {
			return nil, fmt.Errorf("resource %s renders an empty logical id", r.Node().Path())
		}
		if prev, dup := paths[id]; dup {
			return nil, fmt.Errorf("logical id collision: %s and %s both render %q", prev, r.Node().Path(), id)
		}
		paths[id] = r.Node().Path()
	}

	if err := checkCycles(resources); err != nil {
		return nil, err
	}

	template := &awscdk.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources:                make(map[string]awscdk.ResourceDef, len(resources)),
	}

	for _, r := range resources {
		def := awscdk.ResourceDef{
			Type:       r.Type(),
			Properties: transformProperties(r.Properties()),
		}
		for _, dep := range r.Dependencies() {
			def.DependsOn = append(def.DependsOn, dep.LogicalID())
		}
		sort.Strings(def.DependsOn)
		template.Resources[r.LogicalID()] = def
	}

	return template, nil
}

// transformProperties resolves late-bound values in a property map.
func transformProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	result := make(map[string]any, len(props))
	for key, value := range props {
		result[key] = transformValue(value)
	}
	return result
}

// transformValue recursively resolves Renderable values, attribute
// references, and pseudo-parameter strings into template form.
func transformValue(value any) any {
	switch v := value.(type) {
	case awscdk.Renderable:
		// Covers AttrRef, policy documents, tag managers. Render output
		// may itself contain pseudo-parameter strings.
		return transformValue(v.Render())

	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = transformValue(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, elem := range v {
			result[i] = transformValue(elem)
		}
		return result

	case []string:
		result := make([]any, len(v))
		for i, elem := range v {
			result[i] = transformValue(elem)
		}
		return result

	case string:
		// Strings carrying pseudo parameters need Fn::Sub to resolve.
		if strings.Contains(v, "${AWS::") {
			return map[string]any{"Fn::Sub": v}
		}
		return v

	default:
		return value
	}
}

// checkCycles rejects trees whose explicit DependsOn edges form a cycle.
func checkCycles(resources []*constructs.CfnResource) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[*constructs.CfnResource]int)

	var visit func(r *constructs.CfnResource, trail []string) error
	visit = func(r *constructs.CfnResource, trail []string) error {
		switch state[r] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("circular dependency detected: %s", strings.Join(append(trail, r.LogicalID()), " -> "))
		}
		state[r] = visiting
		for _, dep := range r.Dependencies() {
			if err := visit(dep, append(trail, r.LogicalID())); err != nil {
				return err
			}
		}
		state[r] = done
		return nil
	}

	for _, r := range resources {
		if err := visit(r, nil); err != nil {
			return err
		}
	}
	return nil
}

// ToJSON serializes the template to indented JSON.
func ToJSON(t *awscdk.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *awscdk.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
