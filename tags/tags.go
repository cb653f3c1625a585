// Package tags implements tag collection and rendering for constructs.
package tags

import (
	"sort"

	awscdk "github.com/dpilch/aws-cdk"
)

// TagManager holds a unique-keyed tag set and renders it in the list form
// CloudFormation resources expect. It implements awscdk.Renderable so a
// resource property can reference the manager directly and pick up tags
// added after construction.
type TagManager struct {
	values map[string]string
}

// New creates an empty TagManager.
func New() *TagManager {
	return &TagManager{values: make(map[string]string)}
}

// Set adds or replaces a tag.
func (t *TagManager) Set(key, value string) {
	t.values[key] = value
}

// Len returns the number of tags.
func (t *TagManager) Len() int {
	return len(t.values)
}

// RenderTags returns the tags as a list sorted by key.
func (t *TagManager) RenderTags() []awscdk.Tag {
	keys := make([]string, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]awscdk.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, awscdk.Tag{Key: k, Value: t.values[k]})
	}
	return out
}

// Render implements awscdk.Renderable.
func (t *TagManager) Render() any {
	rendered := t.RenderTags()
	out := make([]any, 0, len(rendered))
	for _, tag := range rendered {
		out = append(out, map[string]any{"Key": tag.Key, "Value": tag.Value})
	}
	return out
}
