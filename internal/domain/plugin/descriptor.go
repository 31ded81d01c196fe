// Package plugin provides plugin discovery, dependency validation, and
// capability registration.
package plugin

import (
	"context"
	"sort"
	"strings"
)

// Kind distinguishes the two capability families a plugin can export.
type Kind string

const (
	// KindTask is a single named operation.
	KindTask Kind = "task"
	// KindFlow is a composed sequence of operations.
	KindFlow Kind = "flow"
)

const (
	// workflowSuffix is stripped from flow names for a cleaner CLI.
	workflowSuffix = "_workflow"
	// reservedPrefix marks internal units that are never treated as plugins.
	reservedPrefix = "_"
	// privatePrefix marks capability names that are private by convention.
	privatePrefix = "_"
)

// Callable is an invocable capability. Params carry the caller-supplied
// key/value arguments; interpretation is entirely up to the capability.
type Callable func(ctx context.Context, params map[string]string) (string, error)

// Descriptor is the value a plugin returns from its entry point. It replaces
// runtime introspection: everything the discovery pass needs to know about a
// plugin is declared here explicitly.
type Descriptor struct {
	// Name is the plugin identifier and its unique key (e.g., "email").
	Name string
	// Version is an optional semantic version (e.g., "v1.2.0").
	Version string
	// Dependencies lists required plugin names, possibly empty.
	Dependencies []string
	// Tasks binds the plugin's task exports. Nil means the plugin defines
	// no tasks, which is not an error.
	Tasks func(*Binder) error
	// Flows binds the plugin's flow exports. Nil means no flows.
	Flows func(*Binder) error
}

// binder entries keep registration order so that staging is deterministic.
type binding struct {
	name string
	fn   Callable
}

// Binder accumulates explicit Register calls made by a plugin's bind
// function. Registering a capability may run arbitrary plugin setup code;
// the binder does not assume it is side-effect-free.
type Binder struct {
	kind     Kind
	bindings []binding
}

// Register adds a named capability. Names beginning with an underscore are
// private by convention and ignored, as are empty names and nil callables.
// For flows, a trailing "_workflow" is stripped from the registered name.
func (b *Binder) Register(name string, fn Callable) {
	if name == "" || fn == nil {
		return
	}
	if strings.HasPrefix(name, privatePrefix) {
		return
	}
	if b.kind == KindFlow {
		name = strings.TrimSuffix(name, workflowSuffix)
	}
	b.bindings = append(b.bindings, binding{name: name, fn: fn})
}

// dedupe returns deps with duplicates removed, preserving first occurrence.
func dedupe(deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(deps))
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// sortedNames returns the keys of m in lexicographic order.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
