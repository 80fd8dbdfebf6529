// Package deploylog appends timestamped records to the deployment log.
//
// The log is shared by every hook run on a node, so records are only ever
// appended. Each record is a single line:
//
//	[20121010 14:03:59] PostStage: Ver:1.0.0, Env: production, Run Once: 1
package deploylog

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/consts"
)

// TimeFormat renders timestamps as YYYYMMDD HH:MM:SS.
const TimeFormat = "20060102 15:04:05"

// Logger writes records to an append-only file.
type Logger struct {
	path string
	now  func() time.Time
}

// New returns a Logger for path using the wall clock.
func New(path string) *Logger {
	return NewWithClock(path, time.Now)
}

// NewWithClock returns a Logger that stamps records using now.
func NewWithClock(path string, now func() time.Time) *Logger {
	return &Logger{path: path, now: now}
}

// Path returns the file records are appended to.
func (l *Logger) Path() string {
	return l.path
}

// Printf appends one record. The file is opened for every record so that
// earlier content is never truncated and nothing is held open between steps.
func (l *Logger) Printf(format string, args ...any) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to open deploy log: %s", l.path)
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("[%s] %s\n", l.now().Format(TimeFormat), fmt.Sprintf(format, args...))
	if _, err := f.WriteString(line); err != nil {
		return errors.Wrapf(err, "failed to append to deploy log: %s", l.path)
	}

	return nil
}
