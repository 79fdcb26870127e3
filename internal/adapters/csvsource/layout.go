package csvsource

import "path/filepath"

// Default file names written by the simulator.
const (
	DefaultRoot        = ".."
	DefaultPowerFile   = "power.csv"
	DefaultTaskFile    = "taskScores.csv"
	DefaultSubtaskFile = "subtaskScores.csv"
)

// Layout locates the output files of a problem statement:
// <Root>/<problem>/<file>.
type Layout struct {
	Root        string
	PowerFile   string
	TaskFile    string
	SubtaskFile string
}

// DefaultLayout returns the simulator's layout, rooted one directory above
// the working directory.
func DefaultLayout() Layout {
	return Layout{
		Root:        DefaultRoot,
		PowerFile:   DefaultPowerFile,
		TaskFile:    DefaultTaskFile,
		SubtaskFile: DefaultSubtaskFile,
	}
}

// Path joins root, problem and file.
func (l Layout) Path(problem, file string) (string, error) {
	if problem == "" {
		return "", ErrEmptyProblem
	}
	return filepath.Join(l.Root, problem, file), nil
}
