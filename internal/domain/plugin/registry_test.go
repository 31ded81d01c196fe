package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupMiss(t *testing.T) {
	r := &Registry{tasks: map[string]Callable{}, flows: map[string]Callable{}}

	_, ok := r.LookupTask("absent")
	assert.False(t, ok)
	_, ok = r.LookupFlow("absent")
	assert.False(t, ok)
}

func TestRegistry_ListSorted(t *testing.T) {
	r := &Registry{
		tasks: map[string]Callable{"zeta": noop, "alpha": noop, "mid": noop},
		flows: map[string]Callable{"b": noop, "a": noop},
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.ListTasks())
	assert.Equal(t, []string{"a", "b"}, r.ListFlows())
	require.Equal(t, 3, r.TaskCount())
	require.Equal(t, 2, r.FlowCount())
}
