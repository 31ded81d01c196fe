package plugin

// Registry is the final name→callable mapping exposed to callers. It is
// fully populated by the discovery pass before any concurrent reader exists
// and is never mutated afterward, so reads need no synchronization.
type Registry struct {
	tasks map[string]Callable
	flows map[string]Callable
}

// LookupTask returns the task registered under name.
func (r *Registry) LookupTask(name string) (Callable, bool) {
	fn, ok := r.tasks[name]
	return fn, ok
}

// LookupFlow returns the flow registered under name.
func (r *Registry) LookupFlow(name string) (Callable, bool) {
	fn, ok := r.flows[name]
	return fn, ok
}

// ListTasks returns all registered task names in lexicographic order.
func (r *Registry) ListTasks() []string {
	return sortedNames(r.tasks)
}

// ListFlows returns all registered flow names in lexicographic order.
func (r *Registry) ListFlows() []string {
	return sortedNames(r.flows)
}

// TaskCount returns the number of registered tasks.
func (r *Registry) TaskCount() int {
	return len(r.tasks)
}

// FlowCount returns the number of registered flows.
func (r *Registry) FlowCount() int {
	return len(r.flows)
}
