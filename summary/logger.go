// Package summary records training run output: a text logger, scalar
// series, loss curve plots and image snapshots under a per-run
// directory. Loggers and writers are explicit values constructed once
// and passed to whatever needs them; the package keeps no process
// state.
package summary

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger opens <path>.log and returns a debug-level logger writing
// to it. The returned closer owns the file.
func NewLogger(path string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path+".log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})
	return logger, f, nil
}
