// Package types contains the JSON read shapes served by the viewer and the CLI.
package types

import "github.com/okian/dmasviz/internal/domain/scores"

// Subtask is the JSON shape of one subtask.
type Subtask struct {
	ParentTask      string  `json:"parent_task"`
	Freq            float64 `json:"freq"`
	NLooks          int     `json:"n_looks"`
	Score           float64 `json:"score"`
	Winner          string  `json:"winner"`
	LatLocation     float64 `json:"lat_location"`
	LonLocation     float64 `json:"lon_location"`
	LatMeasurement  float64 `json:"lat_measurement"`
	LonMeasurement  float64 `json:"lon_measurement"`
	TimeMeasurement string  `json:"time_measurement"`
	Completion      bool    `json:"completion"`
}

// Task is the JSON shape of one task with its subtasks.
type Task struct {
	Name       string    `json:"name"`
	MaxScore   float64   `json:"max_score"`
	Score      float64   `json:"score"`
	Completion float64   `json:"completion"`
	Completed  int       `json:"completed_subtasks"`
	Subtasks   []Subtask `json:"subtasks"`
}

// Scores is the JSON shape of a whole tree.
type Scores struct {
	Tasks    []Task  `json:"tasks"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Subtasks int     `json:"subtask_count"`
}

// FromScores converts a score tree, tasks ordered by name.
func FromScores(s *scores.Scores) Scores {
	out := Scores{Tasks: []Task{}}
	if s == nil {
		return out
	}
	tot := s.Totals()
	out.Score = tot.Score
	out.MaxScore = tot.MaxScore
	out.Subtasks = tot.Subtasks
	for _, t := range s.Tasks() {
		tv := Task{
			Name:       t.Name,
			MaxScore:   t.MaxScore,
			Score:      t.Score,
			Completion: t.Completion,
			Completed:  t.Completed(),
			Subtasks:   make([]Subtask, 0, len(t.Subtasks)),
		}
		for _, st := range t.Subtasks {
			tv.Subtasks = append(tv.Subtasks, Subtask(st))
		}
		out.Tasks = append(out.Tasks, tv)
	}
	return out
}
