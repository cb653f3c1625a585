// Package iam provides IAM policy and role constructs.
package iam

import (
	"sort"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/constructs"
)

// PolicyStatement is a single allow/deny statement. Action and resource
// sets are stored sorted so that structural comparison is order-insensitive.
type PolicyStatement struct {
	Effect    string
	Actions   []string
	Resources []string
}

// NewPolicyStatement creates an Allow statement over the given action and
// resource sets.
func NewPolicyStatement(actions, resources []string) PolicyStatement {
	return PolicyStatement{
		Effect:    "Allow",
		Actions:   sortedCopy(actions),
		Resources: sortedCopy(resources),
	}
}

// Equal reports whether two statements are structurally identical: same
// effect, same action set, same resource set.
func (s PolicyStatement) Equal(other PolicyStatement) bool {
	return s.Effect == other.Effect &&
		equalStrings(s.Actions, other.Actions) &&
		equalStrings(s.Resources, other.Resources)
}

// Render returns the statement in CloudFormation policy document form.
func (s PolicyStatement) Render() any {
	return map[string]any{
		"Effect":   s.Effect,
		"Action":   append([]string(nil), s.Actions...),
		"Resource": append([]string(nil), s.Resources...),
	}
}

// PolicyDocument accumulates policy statements, collapsing structurally
// identical grants. Statements are only ever appended; insertion order is
// preserved for rendering but carries no meaning.
type PolicyDocument struct {
	statements []PolicyStatement
}

// NewPolicyDocument creates an empty document.
func NewPolicyDocument() *PolicyDocument {
	return &PolicyDocument{}
}

// Add appends a statement unless an equal one is already present. It returns
// true when the statement was added.
func (d *PolicyDocument) Add(stmt PolicyStatement) bool {
	for _, existing := range d.statements {
		if existing.Equal(stmt) {
			return false
		}
	}
	d.statements = append(d.statements, stmt)
	return true
}

// Statements returns the accumulated statements.
func (d *PolicyDocument) Statements() []PolicyStatement {
	out := make([]PolicyStatement, len(d.statements))
	copy(out, d.statements)
	return out
}

// Len returns the number of distinct statements.
func (d *PolicyDocument) Len() int {
	return len(d.statements)
}

// Render implements awscdk.Renderable.
func (d *PolicyDocument) Render() any {
	stmts := make([]any, 0, len(d.statements))
	for _, s := range d.statements {
		stmts = append(stmts, s.Render())
	}
	return map[string]any{
		"Version":   "2012-10-17",
		"Statement": stmts,
	}
}

var _ awscdk.Renderable = (*PolicyDocument)(nil)

// Policy is an inline IAM policy attached to a role. The construct node is
// composite: its default child is the concrete AWS::IAM::Policy resource, so
// dependency derivation over the owning role picks the policy up through the
// default-child indirection.
type Policy struct {
	node     *constructs.Construct
	resource *constructs.CfnResource
	document *PolicyDocument
}

// NewPolicy creates an inline policy under scope, attached to the named
// roles.
func NewPolicy(scope *constructs.Construct, id, policyName string, roles []any) (*Policy, error) {
	node, err := constructs.New(scope, id)
	if err != nil {
		return nil, err
	}
	document := NewPolicyDocument()
	resource, err := constructs.NewCfnResource(node, "Resource", "AWS::IAM::Policy", map[string]any{
		"PolicyName":     policyName,
		"PolicyDocument": document,
		"Roles":          roles,
	})
	if err != nil {
		return nil, err
	}
	node.SetDefaultChild(resource.Node())
	return &Policy{node: node, resource: resource, document: document}, nil
}

// Node returns the policy's tree node.
func (p *Policy) Node() *constructs.Construct {
	return p.node
}

// Document returns the policy's statement accumulator.
func (p *Policy) Document() *PolicyDocument {
	return p.document
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
