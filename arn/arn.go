// Package arn formats Amazon Resource Names from their components.
//
// Parsing is out of scope; constructs only ever need to produce ARNs for
// resources they describe. Partition, region and account default to
// CloudFormation pseudo-parameter placeholders so the formatted string stays
// deployment-agnostic; the synthesizer wraps such strings in Fn::Sub.
package arn

import "strings"

// Pseudo-parameter placeholders substituted by CloudFormation at deploy time.
const (
	PseudoPartition = "${AWS::Partition}"
	PseudoRegion    = "${AWS::Region}"
	PseudoAccount   = "${AWS::AccountId}"
)

// Components describes the pieces of an ARN.
type Components struct {
	// Partition defaults to the partition pseudo parameter.
	Partition string
	// Service is the service namespace (e.g., "logs"). Required.
	Service string
	// Region defaults to the region pseudo parameter. Some services
	// (e.g., IAM) use an empty region; set NoRegion for those.
	Region   string
	NoRegion bool
	// Account defaults to the account pseudo parameter.
	Account string
	// Resource is the resource type segment (e.g., "log-group").
	Resource string
	// ResourceName is the resource's own name. Optional.
	ResourceName string
	// Separator joins Resource and ResourceName. Defaults to ":".
	Separator string
}

// Format renders the components as an ARN string. Callers needing a
// namespace wildcard append their own suffix to the result.
func Format(c Components) string {
	partition := c.Partition
	if partition == "" {
		partition = PseudoPartition
	}
	region := c.Region
	if region == "" && !c.NoRegion {
		region = PseudoRegion
	}
	account := c.Account
	if account == "" {
		account = PseudoAccount
	}
	sep := c.Separator
	if sep == "" {
		sep = ":"
	}

	resource := c.Resource
	if c.ResourceName != "" {
		resource += sep + c.ResourceName
	}

	return strings.Join([]string{"arn", partition, c.Service, region, account, resource}, ":")
}
