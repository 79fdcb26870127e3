// Package csvsource loads simulation output CSV files into domain values.
//
// Each load opens one file, reads it to the end and closes it, whatever the
// outcome. A load either returns a fully built value or an error; partial
// results never escape.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/dmasviz/internal/domain/power"
	"github.com/okian/dmasviz/internal/domain/scores"
	"github.com/okian/dmasviz/pkg/logger"
	"github.com/okian/dmasviz/pkg/metrics"
)

// Loader reads the output files of one simulation layout.
type Loader struct {
	layout  Layout
	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithMetrics sets the metrics manager loads are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(ld *Loader) {
		if m != nil {
			ld.metrics = m
		}
	}
}

// NewLoader creates a loader for layout. Empty layout fields fall back to
// DefaultLayout.
func NewLoader(layout Layout, opts ...Option) *Loader {
	def := DefaultLayout()
	if layout.Root == "" {
		layout.Root = def.Root
	}
	if layout.PowerFile == "" {
		layout.PowerFile = def.PowerFile
	}
	if layout.TaskFile == "" {
		layout.TaskFile = def.TaskFile
	}
	if layout.SubtaskFile == "" {
		layout.SubtaskFile = def.SubtaskFile
	}
	ld := &Loader{
		layout:  layout,
		logger:  logger.Nop(),
		metrics: metrics.Global(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Layout returns the resolved layout.
func (ld *Loader) Layout() Layout {
	return ld.layout
}

// rowFunc receives each row after the header. line is 1-based.
type rowFunc func(line int, row []string) error

// readFile streams path through fn. When header is non-nil it receives row
// 0; otherwise row 0 is skipped. It returns the number of data rows.
func (ld *Loader) readFile(ctx context.Context, path string, header func([]string), fn rowFunc) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows := 0
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
		}
		if line == 1 {
			if header != nil {
				header(row)
			}
			continue
		}
		if err := fn(line, row); err != nil {
			return rows, err
		}
		rows++
	}
}

// observe records the outcome of one file load.
func (ld *Loader) observe(ctx context.Context, file, path string, start time.Time, rows int, err error) {
	elapsed := time.Since(start)
	if err != nil {
		ld.metrics.RecordLoadError(file, kindOf(err))
		ld.logger.Error(ctx, "load failed",
			logger.String("file", file), logger.String("path", path), logger.Error(err))
		return
	}
	ld.metrics.RecordRowsLoaded(file, rows)
	ld.metrics.RecordLoadDuration(file, float64(elapsed.Microseconds())/1000)
	ld.logger.Info(ctx, "loaded",
		logger.String("file", file), logger.String("path", path),
		logger.Int("rows", rows), logger.Duration("elapsed", elapsed))
}

// LoadPower reads <root>/<problem>/power.csv.
//
// Row 0 supplies the satellite names (columns 2 onwards); every later row
// becomes a Sample of time, epoch and up to one reading per satellite plus
// one, the column read by the plotter's extra index. Further columns are
// dropped. Short rows are kept as they are.
func (ld *Loader) LoadPower(ctx context.Context, problem string) (power.Power, error) {
	path, err := ld.layout.Path(problem, ld.layout.PowerFile)
	if err != nil {
		return power.Power{}, err
	}
	start := time.Now()

	var satNames [][]string
	var samples []power.Sample
	width := 0
	rows, err := ld.readFile(ctx, path,
		func(row []string) {
			names := columns(row, 2, len(row))
			satNames = append(satNames, names)
			width = len(names)
		},
		func(_ int, row []string) error {
			samples = append(samples, power.Sample{
				Time:     field(row, 0),
				Epoch:    field(row, 1),
				Readings: columns(row, 2, 3+width),
			})
			return nil
		})
	ld.observe(ctx, ld.layout.PowerFile, path, start, rows, err)
	if err != nil {
		return power.Power{}, err
	}

	p := power.Power{SatNames: satNames, Samples: samples, Length: rows}
	ld.metrics.UpdateSatellites(len(p.Satellites()))
	return p, nil
}

// LoadScores reads taskScores.csv then subtaskScores.csv of problem and
// assembles the score tree. Every subtask must name a task from the first
// file.
func (ld *Loader) LoadScores(ctx context.Context, problem string) (*scores.Scores, error) {
	taskPath, err := ld.layout.Path(problem, ld.layout.TaskFile)
	if err != nil {
		return nil, err
	}
	subtaskPath, err := ld.layout.Path(problem, ld.layout.SubtaskFile)
	if err != nil {
		return nil, err
	}

	tree := scores.New()

	taskSchema := TaskSchema
	taskSchema.File = ld.layout.TaskFile
	start := time.Now()
	rows, err := ld.readFile(ctx, taskPath, nil, func(line int, row []string) error {
		rec, err := taskSchema.Decode(line, row)
		if err != nil {
			return err
		}
		tree.AddTask(scores.Task{
			Name:       rec[0].Str,
			MaxScore:   rec[1].Float,
			Score:      rec[2].Float,
			Completion: rec[3].Float,
		})
		return nil
	})
	ld.observe(ctx, ld.layout.TaskFile, taskPath, start, rows, err)
	if err != nil {
		return nil, err
	}

	subtaskSchema := SubtaskSchema
	subtaskSchema.File = ld.layout.SubtaskFile
	start = time.Now()
	rows, err = ld.readFile(ctx, subtaskPath, nil, func(line int, row []string) error {
		rec, err := subtaskSchema.Decode(line, row)
		if err != nil {
			return err
		}
		st := scores.Subtask{
			ParentTask:      rec[0].Str,
			Freq:            rec[1].Float,
			NLooks:          rec[2].Int,
			Score:           rec[3].Float,
			Winner:          rec[4].Str,
			LatLocation:     rec[5].Float,
			LonLocation:     rec[6].Float,
			LatMeasurement:  rec[7].Float,
			LonMeasurement:  rec[8].Float,
			TimeMeasurement: rec[9].Str,
			Completion:      rec[10].Bool,
		}
		if err := tree.AddSubtask(st); err != nil {
			return fmt.Errorf("%s:%d: %w: %w", subtaskSchema.File, line, ErrUnknownParent, err)
		}
		return nil
	})
	ld.observe(ctx, ld.layout.SubtaskFile, subtaskPath, start, rows, err)
	if err != nil {
		return nil, err
	}

	ld.metrics.UpdateScoreTree(tree.Len(), tree.SubtaskCount())
	return tree, nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// columns copies row[from:to], clamped to the row length.
func columns(row []string, from, to int) []string {
	to = min(to, len(row))
	if from >= to {
		return []string{}
	}
	return append([]string(nil), row[from:to]...)
}
