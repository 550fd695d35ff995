// Package form holds the editable state of the daily checklist.
//
// A Store is an immutable snapshot: Toggle and SetComment return a new Store
// and leave the receiver untouched, so a host can keep the previous snapshot
// while rendering the next one. Unchanged tasks share their backing arrays
// between snapshots; nothing in this package writes to them after creation.
package form

import (
	"iter"
	"strings"

	"netcheck/pkg/catalog"
	"netcheck/pkg/model"
)

// Store is one snapshot of the checklist.
type Store struct {
	tasks []model.Task
}

// New seeds a store from the static catalog.
func New() *Store {
	return FromTasks(catalog.Tasks())
}

// FromTasks builds a store over a deep copy of tasks.
func FromTasks(tasks []model.Task) *Store {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return &Store{tasks: out}
}

// Tasks returns a deep copy of every task in catalog order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// Service looks up one service by task id and service name.
func (s *Store) Service(taskID, serviceName string) (model.Service, bool) {
	ti, si := s.find(taskID, serviceName)
	if ti < 0 {
		return model.Service{}, false
	}
	return s.tasks[ti].Services[si], true
}

// Toggle flips the state of a service between OK and Not OK. An unset (or
// otherwise unknown) state becomes OK. The comment is replaced with the
// canned text for the new state. Unknown pairs are ignored.
func (s *Store) Toggle(taskID, serviceName string) *Store {
	return s.update(taskID, serviceName, func(svc *model.Service) {
		if svc.State == model.StateOK {
			svc.State = model.StateNotOK
			svc.Comment = model.CommentFailure
			return
		}
		svc.State = model.StateOK
		svc.Comment = model.CommentConnected
	})
}

// SetComment replaces the comment of a service verbatim.
func (s *Store) SetComment(taskID, serviceName, text string) *Store {
	return s.update(taskID, serviceName, func(svc *model.Service) {
		svc.Comment = text
	})
}

// Filter yields the tasks whose system name contains term, ignoring case.
// An empty term yields every task.
func (s *Store) Filter(term string) iter.Seq[model.Task] {
	needle := strings.ToLower(term)
	tasks := s.tasks
	return func(yield func(model.Task) bool) {
		for _, t := range tasks {
			if needle != "" && !strings.Contains(strings.ToLower(t.System), needle) {
				continue
			}
			if !yield(t.Clone()) {
				return
			}
		}
	}
}

// Entries flattens the snapshot into one row per (task, service) pair.
func (s *Store) Entries() []model.Entry {
	var out []model.Entry
	for _, t := range s.tasks {
		for _, svc := range t.Services {
			out = append(out, model.Entry{
				TaskID:      t.ID,
				System:      t.System,
				ServiceName: svc.Name,
				State:       string(svc.State),
				Comment:     svc.Comment,
			})
		}
	}
	return out
}

func (s *Store) find(taskID, serviceName string) (int, int) {
	for ti, t := range s.tasks {
		if t.ID != taskID {
			continue
		}
		for si, svc := range t.Services {
			if svc.Name == serviceName {
				return ti, si
			}
		}
		return -1, -1
	}
	return -1, -1
}

func (s *Store) update(taskID, serviceName string, fn func(*model.Service)) *Store {
	ti, si := s.find(taskID, serviceName)
	if ti < 0 {
		return s
	}
	tasks := append([]model.Task(nil), s.tasks...)
	changed := tasks[ti].Clone()
	fn(&changed.Services[si])
	tasks[ti] = changed
	return &Store{tasks: tasks}
}
