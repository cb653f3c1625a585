package logs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/constructs"
	"github.com/dpilch/aws-cdk/iam"
)

const apiLogGroupBaseArn = "arn:${AWS::Partition}:logs:${AWS::Region}:${AWS::AccountId}:log-group:/aws/lambda/api"

// providerStatements returns the statements accumulated on the shared
// provider's role.
func providerStatements(t *testing.T, root *constructs.Construct) []iam.PolicyStatement {
	t.Helper()
	provider, err := getOrCreateProvider(root)
	require.NoError(t, err)
	require.NotNil(t, provider.role.DefaultPolicy())
	return provider.role.DefaultPolicy().Document().Statements()
}

func TestNewLogRetention_RequiresLogGroupName(t *testing.T) {
	root := constructs.NewRoot("Stack")
	_, err := NewLogRetention(root, "Retention", LogRetentionProps{})
	assert.ErrorContains(t, err, "LogGroupName is required")
}

func TestNewLogRetention_RejectsUnknownRemovalPolicy(t *testing.T) {
	root := constructs.NewRoot("Stack")
	_, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName:  "/aws/lambda/api",
		RemovalPolicy: awscdk.RemovalPolicy("Snapshot"),
	})
	assert.ErrorContains(t, err, "unknown removal policy")
}

func TestNewLogRetention_SharedProvider(t *testing.T) {
	root := constructs.NewRoot("Stack")

	a, err := NewLogRetention(root, "ApiRetention", LogRetentionProps{LogGroupName: "/aws/lambda/api"})
	require.NoError(t, err)
	b, err := NewLogRetention(root, "WorkerRetention", LogRetentionProps{LogGroupName: "/aws/lambda/worker"})
	require.NoError(t, err)

	// Both descriptors reference the same function.
	tokenA := a.Resource().Properties()["ServiceToken"].(awscdk.AttrRef)
	tokenB := b.Resource().Properties()["ServiceToken"].(awscdk.AttrRef)
	assert.Equal(t, tokenA, tokenB)

	// Exactly one function, one role, one policy in the tree.
	var functions, roles, policies int
	for _, r := range constructs.Resources(root) {
		switch r.Type() {
		case "AWS::Lambda::Function":
			functions++
		case "AWS::IAM::Role":
			roles++
		case "AWS::IAM::Policy":
			policies++
		}
	}
	assert.Equal(t, 1, functions)
	assert.Equal(t, 1, roles)
	assert.Equal(t, 1, policies)
}

func TestNewLogRetention_BaselineGrant(t *testing.T) {
	root := constructs.NewRoot("Stack")
	_, err := NewLogRetention(root, "Retention", LogRetentionProps{LogGroupName: "/aws/lambda/api"})
	require.NoError(t, err)

	stmts := providerStatements(t, root)
	require.Len(t, stmts, 1)
	assert.Equal(t, []string{"logs:DeleteRetentionPolicy", "logs:PutRetentionPolicy"}, stmts[0].Actions)
	assert.Equal(t, []string{"*"}, stmts[0].Resources)
}

func TestNewLogRetention_RetentionOmittedWhenInfinite(t *testing.T) {
	tests := []struct {
		name      string
		retention RetentionDays
		wantKey   bool
		wantValue int
	}{
		{name: "infinite omits field", retention: Infinite, wantKey: false},
		{name: "two weeks", retention: TwoWeeks, wantKey: true, wantValue: 14},
		{name: "ten years", retention: TenYears, wantKey: true, wantValue: 3653},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := constructs.NewRoot("Stack")
			lr, err := NewLogRetention(root, "Retention", LogRetentionProps{
				LogGroupName: "/aws/lambda/api",
				Retention:    tt.retention,
			})
			require.NoError(t, err)

			props := lr.Resource().Properties()
			if tt.wantKey {
				assert.Equal(t, tt.wantValue, props["RetentionInDays"])
			} else {
				assert.NotContains(t, props, "RetentionInDays")
			}
		})
	}
}

func TestNewLogRetention_DestroyGrantsDeleteOnSuffixedArn(t *testing.T) {
	root := constructs.NewRoot("Stack")
	_, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName:  "/aws/lambda/api",
		RemovalPolicy: awscdk.RemovalPolicyDestroy,
	})
	require.NoError(t, err)

	stmts := providerStatements(t, root)
	require.Len(t, stmts, 2)
	assert.Equal(t, []string{"logs:DeleteLogGroup"}, stmts[1].Actions)
	assert.Equal(t, []string{apiLogGroupBaseArn + ":*"}, stmts[1].Resources)
}

func TestNewLogRetention_NoDeleteGrantByDefault(t *testing.T) {
	root := constructs.NewRoot("Stack")
	_, err := NewLogRetention(root, "Retention", LogRetentionProps{LogGroupName: "/aws/lambda/api"})
	require.NoError(t, err)

	for _, stmt := range providerStatements(t, root) {
		assert.NotContains(t, stmt.Actions, "logs:DeleteLogGroup")
	}
}

func TestNewLogRetention_PropagateTagsGrantsOnBaseArn(t *testing.T) {
	root := constructs.NewRoot("Stack")
	_, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName:  "/aws/lambda/api",
		PropagateTags: true,
		RemovalPolicy: awscdk.RemovalPolicyDestroy,
	})
	require.NoError(t, err)

	stmts := providerStatements(t, root)
	require.Len(t, stmts, 3)

	deleteStmt := stmts[1]
	tagStmt := stmts[2]
	assert.Equal(t, []string{"logs:ListTagsForResource", "logs:TagResource", "logs:UntagResource"}, tagStmt.Actions)
	assert.Equal(t, []string{apiLogGroupBaseArn}, tagStmt.Resources)

	// The tagging grant targets the exact resource; the delete grant covers
	// its namespace. They differ by exactly the wildcard suffix.
	assert.Equal(t, deleteStmt.Resources[0], tagStmt.Resources[0]+":*")
}

func TestNewLogRetention_GrantsDeduplicateAcrossConstructs(t *testing.T) {
	root := constructs.NewRoot("Stack")

	for _, id := range []string{"A", "B"} {
		_, err := NewLogRetention(root, id, LogRetentionProps{
			LogGroupName:  "/aws/lambda/api",
			RemovalPolicy: awscdk.RemovalPolicyDestroy,
		})
		require.NoError(t, err)
	}

	// Baseline + one delete grant; the second construct's identical delete
	// grant collapses.
	assert.Len(t, providerStatements(t, root), 2)
}

func TestNewLogRetention_ScenarioInfiniteDestroy(t *testing.T) {
	root := constructs.NewRoot("Stack")
	lr, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName:  "/aws/lambda/api",
		Retention:     Infinite,
		RemovalPolicy: awscdk.RemovalPolicyDestroy,
	})
	require.NoError(t, err)

	props := lr.Resource().Properties()
	assert.NotContains(t, props, "RetentionInDays")
	assert.Equal(t, "Destroy", props["RemovalPolicy"])
	assert.NotContains(t, props, "PropagateTags")

	stmts := providerStatements(t, root)
	require.Len(t, stmts, 2)
	assert.Equal(t, []string{"logs:DeleteLogGroup"}, stmts[1].Actions)
}

func TestNewLogRetention_ScenarioRetainWithTags(t *testing.T) {
	root := constructs.NewRoot("Stack")
	lr, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName:  "/aws/lambda/api",
		Retention:     TwoWeeks,
		PropagateTags: true,
		Tags:          map[string]string{"team": "platform", "env": "prod"},
	})
	require.NoError(t, err)

	props := lr.Resource().Properties()
	assert.Equal(t, 14, props["RetentionInDays"])
	assert.NotContains(t, props, "RemovalPolicy")
	assert.Equal(t, true, props["PropagateTags"])
	assert.Contains(t, props, "Tags")

	stmts := providerStatements(t, root)
	require.Len(t, stmts, 2)
	assert.Equal(t, []string{"logs:ListTagsForResource", "logs:TagResource", "logs:UntagResource"}, stmts[1].Actions)
	assert.Equal(t, []string{apiLogGroupBaseArn}, stmts[1].Resources)
}

func TestNewLogRetention_SdkRetry(t *testing.T) {
	maxRetries := 5
	base := 300 * time.Millisecond

	tests := []struct {
		name string
		opts *SdkRetryOptions
		want map[string]any
	}{
		{
			name: "both fields",
			opts: &SdkRetryOptions{MaxRetries: &maxRetries, Base: &base},
			want: map[string]any{"maxRetries": 5, "base": 300},
		},
		{
			name: "retries only",
			opts: &SdkRetryOptions{MaxRetries: &maxRetries},
			want: map[string]any{"maxRetries": 5},
		},
		{
			name: "base only",
			opts: &SdkRetryOptions{Base: &base},
			want: map[string]any{"base": 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := constructs.NewRoot("Stack")
			lr, err := NewLogRetention(root, "Retention", LogRetentionProps{
				LogGroupName: "/aws/lambda/api",
				SdkRetry:     tt.opts,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, lr.Resource().Properties()["SdkRetry"])
		})
	}
}

func TestNewLogRetention_SdkRetryEmptyOmitted(t *testing.T) {
	root := constructs.NewRoot("Stack")
	lr, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName: "/aws/lambda/api",
		SdkRetry:     &SdkRetryOptions{},
	})
	require.NoError(t, err)
	assert.NotContains(t, lr.Resource().Properties(), "SdkRetry")
}

func TestNewLogRetention_Region(t *testing.T) {
	root := constructs.NewRoot("Stack")
	lr, err := NewLogRetention(root, "Retention", LogRetentionProps{
		LogGroupName:   "/aws/lambda/api",
		LogGroupRegion: "eu-west-1",
	})
	require.NoError(t, err)

	props := lr.Resource().Properties()
	assert.Equal(t, "eu-west-1", props["LogGroupRegion"])
	assert.Contains(t, lr.LogGroupArn(), ":logs:eu-west-1:")
}

func TestNewLogRetention_LogGroupArnSuffixed(t *testing.T) {
	root := constructs.NewRoot("Stack")
	lr, err := NewLogRetention(root, "Retention", LogRetentionProps{LogGroupName: "/aws/lambda/api"})
	require.NoError(t, err)

	assert.Equal(t, apiLogGroupBaseArn+":*", lr.LogGroupArn())
}

func TestNewLogRetention_DependsOnRoleAndPolicy(t *testing.T) {
	root := constructs.NewRoot("Stack")
	lr, err := NewLogRetention(root, "Retention", LogRetentionProps{LogGroupName: "/aws/lambda/api"})
	require.NoError(t, err)

	var types []string
	for _, dep := range lr.Resource().Dependencies() {
		types = append(types, dep.Type())
	}
	assert.Equal(t, []string{"AWS::IAM::Role", "AWS::IAM::Policy"}, types)
}

func TestNewLogRetention_ValidationBeforeMutation(t *testing.T) {
	root := constructs.NewRoot("Stack")

	_, err := NewLogRetention(root, "Bad", LogRetentionProps{})
	require.Error(t, err)

	// The failed construct must not have provisioned the provider.
	assert.Nil(t, root.TryFindChild("LogRetentionFunction"))
}
