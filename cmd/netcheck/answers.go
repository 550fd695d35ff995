package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"netcheck/pkg/model"
	"netcheck/pkg/screen"
)

// answer is one line of an answers file. State is applied by toggling, then
// Comment (when set) replaces whatever the toggle wrote.
type answer struct {
	Task    string  `yaml:"task"`
	Service string  `yaml:"service"`
	State   string  `yaml:"state"`
	Comment *string `yaml:"comment"`
}

type answersFile struct {
	Answers []answer `yaml:"answers"`
}

func loadAnswers(path string) ([]answer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var f answersFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return f.Answers, nil
}

// applyAnswers drives the form screen the way a technician would: tapping the
// state button until it shows the wanted state, then typing the comment.
func applyAnswers(f *screen.FormScreen, answers []answer) error {
	for i, a := range answers {
		svc, ok := f.Snapshot().Service(a.Task, a.Service)
		if !ok {
			return fmt.Errorf("answer %d: no service %q in task %q", i+1, a.Service, a.Task)
		}
		if a.State != "" {
			want := model.State(a.State)
			if !want.Touched() {
				return fmt.Errorf("answer %d: state must be %q or %q, got %q", i+1, model.StateOK, model.StateNotOK, a.State)
			}
			for tries := 0; svc.State != want && tries < 2; tries++ {
				f.Toggle(a.Task, a.Service)
				svc, _ = f.Snapshot().Service(a.Task, a.Service)
			}
		}
		if a.Comment != nil {
			f.EditComment(a.Task, a.Service, *a.Comment)
		}
	}
	return nil
}
