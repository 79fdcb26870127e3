// Package scores models the two-level task/subtask scoring tree produced by a
// simulation run.
//
// Tasks live in a name-keyed arena owned by Scores. A Subtask refers to its
// task only through ParentTask; attaching a subtask whose parent is not in
// the arena is an error, never a silent drop.
package scores

import (
	"fmt"
	"sort"
)

// Task is a unit of simulated work and its scoring outcome.
type Task struct {
	Name       string
	MaxScore   float64
	Score      float64
	Completion float64
	Subtasks   []Subtask
}

// Subtask is one decomposed unit of a Task.
type Subtask struct {
	ParentTask      string
	Freq            float64
	NLooks          int
	Score           float64
	Winner          string
	LatLocation     float64
	LonLocation     float64
	LatMeasurement  float64
	LonMeasurement  float64
	TimeMeasurement string
	Completion      bool
}

// Completed counts the subtasks whose completion flag is set.
func (t Task) Completed() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completion {
			n++
		}
	}
	return n
}

// Totals aggregates achieved and maximum score over a tree.
type Totals struct {
	Tasks    int
	Subtasks int
	Score    float64
	MaxScore float64
}

// Scores maps task name to Task.
type Scores struct {
	tasks map[string]*Task
}

// New returns an empty score tree.
func New() *Scores {
	return &Scores{tasks: make(map[string]*Task)}
}

// AddTask inserts t keyed by its name. A task with the same name is
// replaced, subtasks included.
func (s *Scores) AddTask(t Task) {
	cp := t
	cp.Subtasks = append([]Subtask(nil), t.Subtasks...)
	s.tasks[t.Name] = &cp
}

// AddSubtask appends st to the task named by st.ParentTask.
func (s *Scores) AddSubtask(st Subtask) error {
	t, ok := s.tasks[st.ParentTask]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, st.ParentTask)
	}
	t.Subtasks = append(t.Subtasks, st)
	return nil
}

// Task returns a copy of the named task.
func (s *Scores) Task(name string) (Task, bool) {
	t, ok := s.tasks[name]
	if !ok {
		return Task{}, false
	}
	cp := *t
	cp.Subtasks = append([]Subtask(nil), t.Subtasks...)
	return cp, true
}

// Names returns the task names in lexical order.
func (s *Scores) Names() []string {
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tasks returns copies of every task ordered by name.
func (s *Scores) Tasks() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, name := range s.Names() {
		t, _ := s.Task(name)
		out = append(out, t)
	}
	return out
}

// Len returns the number of tasks.
func (s *Scores) Len() int {
	return len(s.tasks)
}

// SubtaskCount returns the number of subtasks across all tasks.
func (s *Scores) SubtaskCount() int {
	n := 0
	for _, t := range s.tasks {
		n += len(t.Subtasks)
	}
	return n
}

// Totals sums score and max score over every task.
func (s *Scores) Totals() Totals {
	tot := Totals{Tasks: len(s.tasks)}
	for _, t := range s.tasks {
		tot.Subtasks += len(t.Subtasks)
		tot.Score += t.Score
		tot.MaxScore += t.MaxScore
	}
	return tot
}
