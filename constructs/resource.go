package constructs

import (
	"fmt"
	"strings"

	awscdk "github.com/dpilch/aws-cdk"
)

// CfnResource is a concrete deployable resource. Every CfnResource owns a
// tree node; the node's Resource() points back at it.
type CfnResource struct {
	node       *Construct
	typ        string
	properties map[string]any
	dependsOn  []*CfnResource
}

// NewCfnResource creates a resource construct under scope.
//
// The properties map is held by reference: values implementing
// awscdk.Renderable are resolved at synthesis time, so late mutation through
// such values (e.g. a policy document accumulating statements) is visible in
// the rendered template.
func NewCfnResource(scope *Construct, id, resourceType string, properties map[string]any) (*CfnResource, error) {
	if resourceType == "" {
		return nil, fmt.Errorf("resource %s/%s: type is empty", scope.Path(), id)
	}
	node, err := New(scope, id)
	if err != nil {
		return nil, err
	}
	r := &CfnResource{
		node:       node,
		typ:        resourceType,
		properties: properties,
	}
	node.resource = r
	return r, nil
}

// Node returns the tree node the resource hangs off.
func (r *CfnResource) Node() *Construct {
	return r.node
}

// Type returns the CloudFormation resource type (e.g., "AWS::IAM::Role").
func (r *CfnResource) Type() string {
	return r.typ
}

// Properties returns the resource's property map.
func (r *CfnResource) Properties() map[string]any {
	return r.properties
}

// AddDependency records that this resource must be created after target.
// Adding the same target twice has no effect.
func (r *CfnResource) AddDependency(target *CfnResource) {
	if target == nil || target == r {
		return
	}
	for _, existing := range r.dependsOn {
		if existing == target {
			return
		}
	}
	r.dependsOn = append(r.dependsOn, target)
}

// Dependencies returns the resources this resource depends on, in the order
// they were added.
func (r *CfnResource) Dependencies() []*CfnResource {
	out := make([]*CfnResource, len(r.dependsOn))
	copy(out, r.dependsOn)
	return out
}

// LogicalID returns the deterministic CloudFormation logical id, derived
// from the tree path with the root segment dropped and the conventional
// "Resource" wrapper segment elided.
//
//	Stack/Provider/ServiceRole/Resource -> ProviderServiceRole
func (r *CfnResource) LogicalID() string {
	var parts []string
	for node := r.node; node != nil && node.scope != nil; node = node.scope {
		if node.id == "Resource" || node.id == "Default" {
			continue
		}
		parts = append([]string{sanitizeLogicalID(node.id)}, parts...)
	}
	return strings.Join(parts, "")
}

// GetAtt returns a reference to one of the resource's attributes.
func (r *CfnResource) GetAtt(attribute string) awscdk.AttrRef {
	return awscdk.AttrRef{Resource: r.LogicalID(), Attribute: attribute}
}

// sanitizeLogicalID strips characters CloudFormation does not allow in
// logical ids.
func sanitizeLogicalID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
