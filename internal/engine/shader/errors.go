package shader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySource is returned for stage source that has no text.
	ErrEmptySource = errors.New("shader: empty source")

	// ErrStageMismatch is returned when a stage is passed in the wrong slot.
	ErrStageMismatch = errors.New("shader: stage mismatch")

	// ErrStageConsumed is returned for a stage that was already linked or released.
	ErrStageConsumed = errors.New("shader: stage already consumed")

	// ErrProgramReleased is returned when resolving against a released program.
	ErrProgramReleased = errors.New("shader: program released")
)

// CompileError reports a stage the device refused to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: compile failed: %s", e.Stage, trimLog(e.Log))
}

// LinkError reports a stage pair the device refused to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link failed: %s", trimLog(e.Log))
}

// trimLog drops the NUL terminator and trailing newlines GL drivers leave
// in info logs.
func trimLog(log string) string {
	log = strings.TrimRight(log, "\x00\r\n ")
	if log == "" {
		return "(no diagnostic log)"
	}
	return log
}
