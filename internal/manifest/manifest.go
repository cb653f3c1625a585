// Package manifest loads declarative log-retention manifests.
//
// A manifest lists the log groups to manage:
//
//	stack: logging
//	logGroups:
//	  - name: /aws/lambda/api
//	    retentionDays: 14
//	    propagateTags: true
//	    tags:
//	      team: platform
//	  - name: /aws/lambda/worker
//	    removalPolicy: destroy
package manifest

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	awscdk "github.com/dpilch/aws-cdk"
	"github.com/dpilch/aws-cdk/constructs"
	"github.com/dpilch/aws-cdk/logs"
)

// Manifest is the top-level manifest document.
type Manifest struct {
	// Stack names the construct tree root. Defaults to "Stack".
	Stack string `yaml:"stack"`
	// LogGroups lists the managed log groups. At least one is required.
	LogGroups []LogGroupSpec `yaml:"logGroups"`
}

// LogGroupSpec configures retention management for one log group.
type LogGroupSpec struct {
	Name          string            `yaml:"name"`
	Region        string            `yaml:"region"`
	RetentionDays int               `yaml:"retentionDays"`
	RemovalPolicy string            `yaml:"removalPolicy"`
	PropagateTags bool              `yaml:"propagateTags"`
	Tags          map[string]string `yaml:"tags"`
	SdkRetry      *SdkRetrySpec     `yaml:"sdkRetry"`
}

// SdkRetrySpec configures provider API retries.
type SdkRetrySpec struct {
	MaxRetries *int `yaml:"maxRetries"`
	BaseMillis *int `yaml:"baseMillis"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.LogGroups) == 0 {
		return fmt.Errorf("manifest defines no log groups")
	}
	for i, lg := range m.LogGroups {
		if lg.Name == "" {
			return fmt.Errorf("logGroups[%d]: name is required", i)
		}
		if lg.RetentionDays < 0 {
			return fmt.Errorf("logGroups[%d] %s: retentionDays must not be negative", i, lg.Name)
		}
		switch lg.RemovalPolicy {
		case "", "retain", "destroy":
		default:
			return fmt.Errorf("logGroups[%d] %s: removalPolicy must be retain or destroy, got %q", i, lg.Name, lg.RemovalPolicy)
		}
		if lg.SdkRetry != nil {
			if lg.SdkRetry.MaxRetries != nil && *lg.SdkRetry.MaxRetries < 0 {
				return fmt.Errorf("logGroups[%d] %s: sdkRetry.maxRetries must not be negative", i, lg.Name)
			}
			if lg.SdkRetry.BaseMillis != nil && *lg.SdkRetry.BaseMillis < 0 {
				return fmt.Errorf("logGroups[%d] %s: sdkRetry.baseMillis must not be negative", i, lg.Name)
			}
		}
	}
	return nil
}

// BuildTree constructs the tree described by the manifest.
func (m *Manifest) BuildTree() (*constructs.Construct, error) {
	stack := m.Stack
	if stack == "" {
		stack = "Stack"
	}
	root := constructs.NewRoot(stack)

	for i, lg := range m.LogGroups {
		props := logs.LogRetentionProps{
			LogGroupName:   lg.Name,
			LogGroupRegion: lg.Region,
			Retention:      logs.RetentionDays(lg.RetentionDays),
			PropagateTags:  lg.PropagateTags,
			Tags:           lg.Tags,
		}
		if lg.RemovalPolicy == "destroy" {
			props.RemovalPolicy = awscdk.RemovalPolicyDestroy
		}
		if lg.SdkRetry != nil {
			retry := &logs.SdkRetryOptions{MaxRetries: lg.SdkRetry.MaxRetries}
			if lg.SdkRetry.BaseMillis != nil {
				base := time.Duration(*lg.SdkRetry.BaseMillis) * time.Millisecond
				retry.Base = &base
			}
			props.SdkRetry = retry
		}

		id := constructID(lg.Name, i)
		if root.TryFindChild(id) != nil {
			id = fmt.Sprintf("%s%d", id, i)
		}
		if _, err := logs.NewLogRetention(root, id, props); err != nil {
			return nil, fmt.Errorf("logGroups[%d] %s: %w", i, lg.Name, err)
		}
	}

	return root, nil
}

// constructID derives a construct id from a log group name. BuildTree
// disambiguates with the index when two names sanitize to the same string.
func constructID(name string, index int) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			if upper && r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			sb.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("LogGroup%dRetention", index)
	}
	return sb.String() + "Retention"
}
