package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/taskdeck/internal/model"
)

var sample = []model.Task{
	{ID: "1", ProjectID: "p1", Status: model.TaskTodo},
	{ID: "2", ProjectID: "p2", Status: model.TaskDone},
	{ID: "3", ProjectID: "p1", Status: model.TaskInProgress},
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name    string
		project string
		status  string
		want    []string
	}{
		{"all all keeps order", All, All, []string{"1", "2", "3"}},
		{"project only", "p1", All, []string{"1", "3"}},
		{"status only", All, "done", []string{"2"}},
		{"both match", "p1", "in-progress", []string{"3"}},
		{"both, empty result", "p2", "todo", []string{}},
		{"unknown project", "p9", All, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(sample, tt.project, tt.status)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestVisibleIdempotent(t *testing.T) {
	once := Visible(sample, "p1", All)
	twice := Visible(once, "p1", All)
	assert.Equal(t, once, twice)
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	before := ids(sample)
	Visible(sample, "p2", "done")
	assert.Equal(t, before, ids(sample))
}

func TestVisibleEmptyInput(t *testing.T) {
	assert.Empty(t, Visible(nil, All, All))
	assert.Empty(t, Visible([]model.Task{}, "p1", "done"))
}
