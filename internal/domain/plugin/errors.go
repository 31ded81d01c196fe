package plugin

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a capability lookup miss.
var ErrNotFound = errors.New("capability not found")

// LoadError records a plugin whose bind function failed for one kind. The
// plugin is treated as exporting nothing of that kind; discovery continues.
type LoadError struct {
	Plugin string
	Kind   Kind
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("plugin %q: loading %ss: %v", e.Plugin, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// CollisionError reports two plugins exporting a capability under the same
// final name. It is only surfaced in strict mode; the default behavior is
// silent last-writer-wins.
type CollisionError struct {
	Kind   Kind
	Name   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s %q exported by both %q and %q", e.Kind, e.Name, e.First, e.Second)
}
