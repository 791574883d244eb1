package tui

import "github.com/idilsaglam/taskdeck/internal/model"

// Messages delivered by commands. Fetch results carry whatever the
// server returned at that instant; a late response simply lands last.

type projectsFetchedMsg struct {
	items []model.Project
	err   error
}

type tasksFetchedMsg struct {
	items []model.Task
	err   error
}

type authResultMsg struct {
	token string
	user  model.User
	err   error
}

type projectSavedMsg struct{ err error }

type taskSavedMsg struct{ err error }

type taskDeletedMsg struct{ err error }
