package logs

import (
	"fmt"
	"time"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/arn"
	"github.com/dpilch/aws-cdk/constructs"
	"github.com/dpilch/aws-cdk/iam"
	"github.com/dpilch/aws-cdk/tags"
)

// SdkRetryOptions configures how the provider function retries the
// CloudWatch Logs API at deploy time. It does not affect synthesis. Either
// field may be left nil to use the SDK default.
type SdkRetryOptions struct {
	// MaxRetries is the maximum number of API retries.
	MaxRetries *int
	// Base is the base delay between retries.
	Base *time.Duration
}

// LogRetentionProps configures NewLogRetention.
type LogRetentionProps struct {
	// LogGroupName is the name of the managed log group. Required.
	LogGroupName string
	// LogGroupRegion is the region of the log group when it lives outside
	// the deploy region. Optional.
	LogGroupRegion string
	// Retention is how long events are kept. The zero value keeps them
	// forever.
	Retention RetentionDays
	// RemovalPolicy controls whether the log group is deleted when this
	// construct is removed. Defaults to Retain.
	RemovalPolicy awscdk.RemovalPolicy
	// PropagateTags copies the tags below onto the log group.
	PropagateTags bool
	// Tags are applied to the custom resource and, when PropagateTags is
	// set, to the log group.
	Tags map[string]string
	// SdkRetry tunes the provider's API retry behavior.
	SdkRetry *SdkRetryOptions
}

// LogRetention manages the retention policy of a log group through a shared
// custom-resource provider function. All LogRetention constructs in a tree
// share one provider; per-construct permissions accumulate on its role.
type LogRetention struct {
	node        *constructs.Construct
	resource    *constructs.CfnResource
	logGroupArn string
}

// NewLogRetention creates the construct, provisioning the shared provider on
// first use.
func NewLogRetention(scope *constructs.Construct, id string, props LogRetentionProps) (*LogRetention, error) {
	if props.LogGroupName == "" {
		return nil, fmt.Errorf("log retention %s/%s: LogGroupName is required", scope.Path(), id)
	}
	switch props.RemovalPolicy {
	case "", awscdk.RemovalPolicyRetain, awscdk.RemovalPolicyDestroy:
	default:
		return nil, fmt.Errorf("log retention %s/%s: unknown removal policy %q", scope.Path(), id, props.RemovalPolicy)
	}

	node, err := constructs.New(scope, id)
	if err != nil {
		return nil, err
	}

	provider, err := getOrCreateProvider(scope)
	if err != nil {
		return nil, err
	}

	baseArn := arn.Format(arn.Components{
		Service:      "logs",
		Region:       props.LogGroupRegion,
		Resource:     "log-group",
		ResourceName: props.LogGroupName,
	})
	// The suffixed form covers the log group and everything under its
	// resource-name namespace (log streams).
	suffixedArn := baseArn + ":*"

	if props.RemovalPolicy == awscdk.RemovalPolicyDestroy {
		if err := provider.grant(iam.NewPolicyStatement(
			[]string{"logs:DeleteLogGroup"},
			[]string{suffixedArn},
		)); err != nil {
			return nil, err
		}
	}
	if props.PropagateTags {
		// The tagging APIs address the log group itself, not its
		// namespace, so this grant uses the base ARN.
		if err := provider.grant(iam.NewPolicyStatement(
			[]string{"logs:ListTagsForResource", "logs:TagResource", "logs:UntagResource"},
			[]string{baseArn},
		)); err != nil {
			return nil, err
		}
	}

	resource, err := constructs.NewCfnResource(node, "Resource", "Custom::LogRetention",
		buildProperties(provider, props))
	if err != nil {
		return nil, err
	}
	node.SetDefaultChild(resource.Node())

	// All grants for this construct are in; make sure the custom resource
	// waits for the role and every policy hanging off it.
	for _, dep := range constructs.DependenciesOf(provider.role.Node()) {
		resource.AddDependency(dep)
	}

	return &LogRetention{node: node, resource: resource, logGroupArn: suffixedArn}, nil
}

// buildProperties assembles the custom resource's property map. Pure: all
// shared-state mutation has already happened by the time it runs.
func buildProperties(provider *retentionProvider, props LogRetentionProps) map[string]any {
	properties := map[string]any{
		"ServiceToken": provider.resource.GetAtt("Arn"),
		"LogGroupName": props.LogGroupName,
	}
	if props.LogGroupRegion != "" {
		properties["LogGroupRegion"] = props.LogGroupRegion
	}
	if props.SdkRetry != nil {
		retry := map[string]any{}
		if props.SdkRetry.MaxRetries != nil {
			retry["maxRetries"] = *props.SdkRetry.MaxRetries
		}
		if props.SdkRetry.Base != nil {
			retry["base"] = int(props.SdkRetry.Base.Milliseconds())
		}
		if len(retry) > 0 {
			properties["SdkRetry"] = retry
		}
	}
	if props.Retention != Infinite {
		properties["RetentionInDays"] = int(props.Retention)
	}
	if props.RemovalPolicy == awscdk.RemovalPolicyDestroy {
		properties["RemovalPolicy"] = string(awscdk.RemovalPolicyDestroy)
	}
	if props.PropagateTags {
		properties["PropagateTags"] = true
	}
	if len(props.Tags) > 0 {
		manager := tags.New()
		for k, v := range props.Tags {
			manager.Set(k, v)
		}
		properties["Tags"] = manager
	}
	return properties
}

// Node returns the construct's tree node.
func (l *LogRetention) Node() *constructs.Construct {
	return l.node
}

// Resource returns the underlying custom resource.
func (l *LogRetention) Resource() *constructs.CfnResource {
	return l.resource
}

// LogGroupArn returns the ARN of the managed log group, including the
// trailing wildcard that covers its log streams.
func (l *LogRetention) LogGroupArn() string {
	return l.logGroupArn
}
