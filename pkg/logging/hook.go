package logging

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// SourceField is the field name used for logging source location.
	SourceField = "source"
	repo        = "github.com/praekeltfoundation/puppet-gluster"
)

// SourceLocationHook tags entries with the first caller inside this module.
type SourceLocationHook struct{}

// Levels returns all logrus levels.
func (hook SourceLocationHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire adds file name, function name and line number to the log entry.
func (hook SourceLocationHook) Fire(entry *logrus.Entry) error {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(4, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.Function, repo) && !strings.Contains(frame.Function, "pkg/logging") {
			entry.Data[SourceField] = fmt.Sprintf("%s:%s:%d", path.Base(frame.File), path.Base(frame.Function), frame.Line)
			break
		}
		if !more {
			break
		}
	}

	return nil
}
