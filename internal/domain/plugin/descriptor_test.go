package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func noop(_ context.Context, _ map[string]string) (string, error) {
	return "", nil
}

func boundNames(b *Binder) []string {
	names := make([]string, 0, len(b.bindings))
	for _, bound := range b.bindings {
		names = append(names, bound.name)
	}
	return names
}

func TestBinder_IgnoresPrivateNames(t *testing.T) {
	b := &Binder{kind: KindTask}
	b.Register("_helper", noop)
	b.Register("public", noop)

	assert.Equal(t, []string{"public"}, boundNames(b))
}

func TestBinder_IgnoresEmptyNameAndNilCallable(t *testing.T) {
	b := &Binder{kind: KindTask}
	b.Register("", noop)
	b.Register("nil_fn", nil)

	assert.Empty(t, b.bindings)
}

func TestBinder_StripsWorkflowSuffixForFlows(t *testing.T) {
	b := &Binder{kind: KindFlow}
	b.Register("mallory_stories_workflow", noop)
	b.Register("plain", noop)

	assert.Equal(t, []string{"mallory_stories", "plain"}, boundNames(b))
}

func TestBinder_KeepsWorkflowSuffixForTasks(t *testing.T) {
	b := &Binder{kind: KindTask}
	b.Register("run_workflow", noop)

	assert.Equal(t, []string{"run_workflow"}, boundNames(b))
}

func TestDedupe_PreservesFirstOccurrenceOrder(t *testing.T) {
	assert.Equal(t, []string{"email", "slack"}, dedupe([]string{"email", "slack", "email"}))
	assert.Nil(t, dedupe(nil))
}
