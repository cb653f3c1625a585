package logs

import (
	"github.com/dpilch/aws-cdk/arn"
	"github.com/dpilch/aws-cdk/constructs"
	"github.com/dpilch/aws-cdk/iam"
	"github.com/dpilch/aws-cdk/regioninfo"
)

// retentionProviderKey is the singleton registry key for the shared provider
// function. Every LogRetention in a tree resolves to the same key, so the
// function, its role and its policy are created at most once.
const retentionProviderKey = "LogRetentionFunction"

// fallbackRuntime is used when the deploy region is not known at synthesis
// time or has no recorded runtime fact.
const fallbackRuntime = "nodejs22.x"

// handlerStub is the inline source of the provider function. The real
// handler calls PutRetentionPolicy/DeleteRetentionPolicy against the target
// log group; the stub keeps the template self-contained without an asset
// upload step.
const handlerStub = `exports.handler = async (event) => { return { PhysicalResourceId: event.ResourceProperties.LogGroupName }; };`

// retentionProvider is the shared custom-resource Lambda function that
// applies retention policies. It owns its execution role; grants issued by
// individual LogRetention constructs accumulate on that role's default
// policy.
type retentionProvider struct {
	node     *constructs.Construct
	role     *iam.Role
	resource *constructs.CfnResource
}

// getOrCreateProvider returns the tree-wide provider, creating it on first
// use. Registration happens at the tree root so unrelated call sites in the
// same tree share one function.
func getOrCreateProvider(scope *constructs.Construct) (*retentionProvider, error) {
	return constructs.GetOrCreate(scope.Root(), retentionProviderKey, newRetentionProvider)
}

func newRetentionProvider(scope *constructs.Construct, id string) (*retentionProvider, error) {
	node, err := constructs.New(scope, id)
	if err != nil {
		return nil, err
	}

	role, err := iam.NewRole(node, "ServiceRole", iam.RoleProps{
		AssumedBy: "lambda.amazonaws.com",
		ManagedPolicyARNs: []string{
			arn.Format(arn.Components{
				Service:      "iam",
				NoRegion:     true,
				Account:      "aws",
				Resource:     "policy",
				ResourceName: "service-role/AWSLambdaBasicExecutionRole",
				Separator:    "/",
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	// The retention grant stays on "*". Scoping it to the target log group
	// is not possible: the function writes its own log group, and naming
	// that group here would make the function depend on a resource that
	// depends on the function.
	if _, err := role.AddToPolicy(iam.NewPolicyStatement(
		[]string{"logs:PutRetentionPolicy", "logs:DeleteRetentionPolicy"},
		[]string{"*"},
	)); err != nil {
		return nil, err
	}

	runtime := regioninfo.RegionalFact("", regioninfo.DefaultCustomResourceRuntime, fallbackRuntime)

	resource, err := constructs.NewCfnResource(node, "Resource", "AWS::Lambda::Function", map[string]any{
		"Handler": "index.handler",
		"Runtime": runtime,
		"Code":    map[string]any{"ZipFile": handlerStub},
		"Role":    role.ARN(),
		"Timeout": 900,
	})
	if err != nil {
		return nil, err
	}
	node.SetDefaultChild(resource.Node())
	resource.AddDependency(role.Resource())

	return &retentionProvider{node: node, role: role, resource: resource}, nil
}

// grant adds a statement to the provider role's default policy. Duplicate
// grants from different call sites collapse into one statement.
func (p *retentionProvider) grant(stmt iam.PolicyStatement) error {
	_, err := p.role.AddToPolicy(stmt)
	return err
}
