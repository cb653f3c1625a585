package iam

import (
	"fmt"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/constructs"
)

// RoleProps configures NewRole.
type RoleProps struct {
	// AssumedBy is the service principal allowed to assume the role
	// (e.g., "lambda.amazonaws.com"). Required.
	AssumedBy string
	// ManagedPolicyARNs are attached as managed policies.
	ManagedPolicyARNs []string
}

// Role is an IAM role construct. Grants added through AddToPolicy accumulate
// on a lazily created inline default policy, which becomes a child of the
// role's node so that dependency derivation sees it.
type Role struct {
	node          *constructs.Construct
	resource      *constructs.CfnResource
	defaultPolicy *Policy
}

// NewRole creates a role under scope.
func NewRole(scope *constructs.Construct, id string, props RoleProps) (*Role, error) {
	if props.AssumedBy == "" {
		return nil, fmt.Errorf("role %s/%s: AssumedBy is required", scope.Path(), id)
	}
	node, err := constructs.New(scope, id)
	if err != nil {
		return nil, err
	}

	properties := map[string]any{
		"AssumeRolePolicyDocument": map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect":    "Allow",
					"Action":    "sts:AssumeRole",
					"Principal": map[string]any{"Service": props.AssumedBy},
				},
			},
		},
	}
	if len(props.ManagedPolicyARNs) > 0 {
		properties["ManagedPolicyArns"] = append([]string(nil), props.ManagedPolicyARNs...)
	}

	resource, err := constructs.NewCfnResource(node, "Resource", "AWS::IAM::Role", properties)
	if err != nil {
		return nil, err
	}
	node.SetDefaultChild(resource.Node())

	return &Role{node: node, resource: resource}, nil
}

// Node returns the role's tree node.
func (r *Role) Node() *constructs.Construct {
	return r.node
}

// Resource returns the underlying AWS::IAM::Role resource.
func (r *Role) Resource() *constructs.CfnResource {
	return r.resource
}

// ARN returns a reference to the role's ARN attribute.
func (r *Role) ARN() awscdk.AttrRef {
	return r.resource.GetAtt("Arn")
}

// AddToPolicy adds a statement to the role's default inline policy, creating
// the policy on first use. Structurally identical statements collapse; the
// return value reports whether the statement was new.
func (r *Role) AddToPolicy(stmt PolicyStatement) (bool, error) {
	if r.defaultPolicy == nil {
		policy, err := NewPolicy(r.node, "DefaultPolicy", r.resource.LogicalID()+"DefaultPolicy", []any{
			map[string]any{"Ref": r.resource.LogicalID()},
		})
		if err != nil {
			return false, err
		}
		r.defaultPolicy = policy
	}
	return r.defaultPolicy.Document().Add(stmt), nil
}

// DefaultPolicy returns the role's inline policy, or nil if no statements
// have been added yet.
func (r *Role) DefaultPolicy() *Policy {
	return r.defaultPolicy
}
