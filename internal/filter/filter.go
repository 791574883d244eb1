// Package filter derives the visible subset of the cached task list.
// It is a pure recomputation over its inputs: no state, no incremental
// patching. A task whose project has vanished server-side keeps its
// dangling projectId; no live project filter will ever select it.
package filter

import "github.com/idilsaglam/taskdeck/internal/model"

// All is the sentinel for an unset selector.
const All = "all"

// Visible returns the tasks matching both selectors, in input order.
// Each selector is either All or an exact value; the two predicates
// compose by AND.
func Visible(tasks []model.Task, projectFilter, statusFilter string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if projectFilter != All && t.ProjectID != projectFilter {
			continue
		}
		if statusFilter != All && string(t.Status) != statusFilter {
			continue
		}
		out = append(out, t)
	}
	return out
}
