// Package constructs implements the construct tree that template synthesis
// operates on.
//
// A Construct is a named node in a tree of scopes. Concrete deployable
// resources are represented by CfnResource, which always hangs off its own
// tree node. Each scope owns a singleton registry so that shared support
// infrastructure (for example a custom-resource provider function) is created
// at most once per scope regardless of how many call sites request it.
package constructs

import (
	"fmt"
	"strings"
)

// Construct is a node in the construct tree. The zero value is not usable;
// create nodes with NewRoot and New.
type Construct struct {
	id       string
	scope    *Construct
	children map[string]*Construct
	order    []string

	singletons map[string]any
	reserved   map[string]struct{}

	resource     *CfnResource
	defaultChild *Construct
}

// NewRoot creates a construct tree root. The root has no scope and acts as
// the default registration scope for tree-wide singletons.
func NewRoot(id string) *Construct {
	return &Construct{
		id:         id,
		children:   make(map[string]*Construct),
		singletons: make(map[string]any),
		reserved:   make(map[string]struct{}),
	}
}

// New creates a child construct under scope. The id must be unique among
// scope's children.
func New(scope *Construct, id string) (*Construct, error) {
	if scope == nil {
		return nil, fmt.Errorf("construct %q: scope is nil", id)
	}
	if id == "" {
		return nil, fmt.Errorf("construct under %s: id is empty", scope.Path())
	}
	if _, exists := scope.children[id]; exists {
		return nil, fmt.Errorf("construct %s: child %q already exists", scope.Path(), id)
	}
	c := &Construct{
		id:         id,
		scope:      scope,
		children:   make(map[string]*Construct),
		singletons: make(map[string]any),
		reserved:   make(map[string]struct{}),
	}
	scope.children[id] = c
	scope.order = append(scope.order, id)
	return c, nil
}

// ID returns the construct's id within its scope.
func (c *Construct) ID() string {
	return c.id
}

// Scope returns the parent construct, or nil for the root.
func (c *Construct) Scope() *Construct {
	return c.scope
}

// Root returns the root of the tree the construct belongs to.
func (c *Construct) Root() *Construct {
	node := c
	for node.scope != nil {
		node = node.scope
	}
	return node
}

// Path returns the slash-separated path from the root to this construct.
func (c *Construct) Path() string {
	var parts []string
	for node := c; node != nil; node = node.scope {
		parts = append([]string{node.id}, parts...)
	}
	return strings.Join(parts, "/")
}

// Children returns the direct children in insertion order.
func (c *Construct) Children() []*Construct {
	out := make([]*Construct, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.children[id])
	}
	return out
}

// TryFindChild returns the direct child with the given id, or nil.
func (c *Construct) TryFindChild(id string) *Construct {
	return c.children[id]
}

// SetDefaultChild marks a child as this construct's default concrete
// sub-resource, used by dependency derivation for composite nodes.
func (c *Construct) SetDefaultChild(child *Construct) {
	c.defaultChild = child
}

// DefaultChild returns the default child, or nil.
func (c *Construct) DefaultChild() *Construct {
	return c.defaultChild
}

// Resource returns the concrete resource this node wraps, or nil for
// composite nodes.
func (c *Construct) Resource() *CfnResource {
	return c.resource
}

// GetOrCreate returns the singleton registered under key in scope, creating
// it with factory on first use. The factory is invoked at most once per
// (scope, key); later calls return the existing handle without side effects.
//
// The key is reserved while factory runs: a re-entrant request for the same
// key fails rather than constructing a second instance. Factory errors
// propagate and leave no registration behind.
func GetOrCreate[T any](scope *Construct, key string, factory func(scope *Construct, key string) (T, error)) (T, error) {
	var zero T
	if existing, ok := scope.singletons[key]; ok {
		handle, ok := existing.(T)
		if !ok {
			return zero, fmt.Errorf("singleton %q in %s has type %T, requested %T", key, scope.Path(), existing, zero)
		}
		return handle, nil
	}
	if _, busy := scope.reserved[key]; busy {
		return zero, fmt.Errorf("re-entrant construction of singleton %q in %s", key, scope.Path())
	}
	scope.reserved[key] = struct{}{}
	handle, err := factory(scope, key)
	delete(scope.reserved, key)
	if err != nil {
		return zero, err
	}
	scope.singletons[key] = handle
	return handle, nil
}

// DependenciesOf returns the concrete resources one structural level below
// node: direct children that wrap a resource contribute that resource, and
// composite children contribute their default child's resource. Other
// children are ignored. The result contains no duplicates and follows child
// insertion order.
func DependenciesOf(node *Construct) []*CfnResource {
	seen := make(map[*CfnResource]struct{})
	var out []*CfnResource
	for _, child := range node.Children() {
		target := child.resource
		if target == nil {
			if dc := child.defaultChild; dc != nil {
				target = dc.resource
			}
		}
		if target == nil {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// Resources returns every concrete resource in the tree rooted at node, in
// depth-first preorder.
func Resources(node *Construct) []*CfnResource {
	var out []*CfnResource
	if node.resource != nil {
		out = append(out, node.resource)
	}
	for _, child := range node.Children() {
		out = append(out, Resources(child)...)
	}
	return out
}
