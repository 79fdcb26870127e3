package viewer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/dmasviz/internal/adapters/chart"
	"github.com/okian/dmasviz/pkg/logger"
)

// FileViewer writes the chart to <dir>/<name>_power.<ext> and returns.
type FileViewer struct {
	dir    string
	logger logger.Logger
}

// NewFileViewer creates a viewer writing into dir.
func NewFileViewer(dir string, l logger.Logger) *FileViewer {
	if l == nil {
		l = logger.Nop()
	}
	if dir == "" {
		dir = "."
	}
	return &FileViewer{dir: dir, logger: l}
}

// Path returns where a chart named name would be written.
func (v *FileViewer) Path(name string, c chart.Chart) string {
	return filepath.Join(v.dir, name+"_power"+c.Ext())
}

// Show writes the chart file. A name with separators, such as runs/a,
// writes below the matching subdirectory of dir.
func (v *FileViewer) Show(ctx context.Context, name string, c chart.Chart) error {
	path := v.Path(name, c)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.WriteFile(path, c.Data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	v.logger.Info(ctx, "chart written", logger.String("path", path), logger.Int("bytes", len(c.Data)))
	return nil
}
