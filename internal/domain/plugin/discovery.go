package plugin

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// staged is a provisionally extracted capability. Each capability name has
// exactly one owner: when two plugins export the same name, the later one in
// discovery order replaces the earlier entry.
type staged struct {
	owner string
	fn    Callable
}

// Discovery runs the one-shot plugin scan. It executes synchronously on a
// single goroutine at process start; nothing here blocks or suspends.
type Discovery struct {
	logger *slog.Logger
	strict bool
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discovery) { d.logger = logger }
}

// WithStrictCollisions makes Discover fail when two plugins export a
// capability under the same final name, instead of the default silent
// last-writer-wins.
func WithStrictCollisions() Option {
	return func(d *Discovery) { d.strict = true }
}

// NewDiscovery creates a Discovery.
func NewDiscovery(opts ...Option) *Discovery {
	d := &Discovery{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result holds everything the discovery pass produced. All fields are
// read-only once Discover returns.
type Result struct {
	// Plugins is the discovered-plugin set in lexicographic order. It
	// includes disabled plugins and plugins that exported nothing.
	Plugins []string
	// Dependencies maps plugin name to its declared dependency names.
	// Plugins without declarations have no entry.
	Dependencies map[string][]string
	// Disabled maps each disabled plugin to its missing dependency names.
	Disabled map[string][]string
	// LoadErrors lists per-kind bind failures. The affected plugin was
	// treated as exporting nothing of that kind.
	LoadErrors []LoadError
	// Collisions lists capability names exported by more than one plugin.
	Collisions []CollisionError
	// Registry is the final capability registry, built from enabled
	// plugins only.
	Registry *Registry
}

// EnabledCount returns the number of plugins that survived validation.
func (r *Result) EnabledCount() int {
	return len(r.Plugins) - len(r.Disabled)
}

// DisabledNames returns the disabled plugin names in lexicographic order.
func (r *Result) DisabledNames() []string {
	return sortedNames(r.Disabled)
}

// Summary returns the one-line discovery summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d tasks and %d flows registered from %d plugins",
		r.Registry.TaskCount(), r.Registry.FlowCount(), r.EnabledCount())
}

// Discover scans the given plugin units, validates their declared
// dependencies, and assembles the final registry. Units are processed in
// lexicographic name order so re-runs over an unchanged set produce
// identical diagnostics and registry contents. A single failing unit never
// aborts the pass; the worst outcome for any plugin is exclusion.
//
// The returned error is non-nil only in strict-collision mode.
func (d *Discovery) Discover(units []Descriptor) (*Result, error) {
	res := &Result{
		Dependencies: make(map[string][]string),
		Disabled:     make(map[string][]string),
	}

	ordered := d.enumerate(units)

	// Phase 1: extract capabilities and dependency declarations into
	// provisional structures. Nothing is registered yet.
	stagedTasks := make(map[string]staged)
	stagedFlows := make(map[string]staged)
	for _, unit := range ordered {
		res.Plugins = append(res.Plugins, unit.Name)
		d.logger.Debug("discovering plugin", "plugin", unit.Name)

		if unit.Version != "" && !semver.IsValid(unit.Version) {
			d.logger.Warn("plugin declares invalid version", "plugin", unit.Name, "version", unit.Version)
		}

		if deps := dedupe(unit.Dependencies); len(deps) > 0 {
			res.Dependencies[unit.Name] = deps
			d.logger.Debug("plugin dependencies", "plugin", unit.Name, "dependencies", strings.Join(deps, ", "))
		}

		d.extract(unit, KindTask, unit.Tasks, stagedTasks, res)
		d.extract(unit, KindFlow, unit.Flows, stagedFlows, res)
	}

	if d.strict && len(res.Collisions) > 0 {
		return nil, &res.Collisions[0]
	}

	// Phase 2: one-level dependency validation against the discovered set.
	// The check is deliberately not transitive: a dependency that was
	// discovered but itself disabled still counts as present.
	discovered := make(map[string]struct{}, len(res.Plugins))
	for _, name := range res.Plugins {
		discovered[name] = struct{}{}
	}
	for _, name := range res.Plugins {
		if missing := missingDependencies(res.Dependencies[name], discovered); len(missing) > 0 {
			res.Disabled[name] = missing
			d.logger.Warn("plugin disabled - missing dependencies",
				"plugin", name, "missing", strings.Join(missing, ", "))
		}
	}

	// Phase 3: promote entries owned by enabled plugins into the registry.
	registry := &Registry{
		tasks: make(map[string]Callable),
		flows: make(map[string]Callable),
	}
	for _, name := range res.Plugins {
		if _, disabled := res.Disabled[name]; disabled {
			continue
		}
		promote(name, stagedTasks, registry.tasks)
		promote(name, stagedFlows, registry.flows)
	}
	res.Registry = registry

	d.logger.Info(res.Summary())
	if len(res.Disabled) > 0 {
		d.logger.Warn(fmt.Sprintf("%d plugin(s) disabled due to missing dependencies: %s",
			len(res.Disabled), strings.Join(res.DisabledNames(), ", ")))
	}

	return res, nil
}

// enumerate filters and orders the raw units: reserved names are skipped
// entirely, duplicates keep the first occurrence, and the survivors are
// sorted lexicographically by name.
func (d *Discovery) enumerate(units []Descriptor) []Descriptor {
	seen := make(map[string]struct{}, len(units))
	ordered := make([]Descriptor, 0, len(units))
	for _, unit := range units {
		if unit.Name == "" {
			d.logger.Warn("skipping plugin with empty name")
			continue
		}
		if strings.HasPrefix(unit.Name, reservedPrefix) {
			continue
		}
		if _, dup := seen[unit.Name]; dup {
			d.logger.Warn("skipping duplicate plugin", "plugin", unit.Name)
			continue
		}
		seen[unit.Name] = struct{}{}
		ordered = append(ordered, unit)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })
	return ordered
}

// extract runs one bind function and stages its registrations. A nil bind
// function means the plugin has no exports of that kind. A bind error is
// recovered locally: the plugin contributes nothing of that kind.
func (d *Discovery) extract(unit Descriptor, kind Kind, bind func(*Binder) error, into map[string]staged, res *Result) {
	if bind == nil {
		d.logger.Debug("no exports", "plugin", unit.Name, "kind", string(kind))
		return
	}
	b := &Binder{kind: kind}
	if err := bind(b); err != nil {
		loadErr := LoadError{Plugin: unit.Name, Kind: kind, Err: err}
		res.LoadErrors = append(res.LoadErrors, loadErr)
		d.logger.Warn("plugin failed to load", "plugin", unit.Name, "kind", string(kind), "error", err)
		return
	}
	for _, bound := range b.bindings {
		if prev, ok := into[bound.name]; ok && prev.owner != unit.Name {
			res.Collisions = append(res.Collisions, CollisionError{
				Kind: kind, Name: bound.name, First: prev.owner, Second: unit.Name,
			})
		}
		into[bound.name] = staged{owner: unit.Name, fn: bound.fn}
		d.logger.Debug("found capability", "plugin", unit.Name, "kind", string(kind), "name", bound.name)
	}
}

// promote copies the staged entries owned by plugin into dst.
func promote(plugin string, from map[string]staged, dst map[string]Callable) {
	for name, s := range from {
		if s.owner == plugin {
			dst[name] = s.fn
		}
	}
}
