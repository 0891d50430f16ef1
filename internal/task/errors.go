package task

import (
	"fmt"
	"time"
)

// FailedError reports a task the backend explicitly marked failed.
type FailedError struct {
	TaskID  string
	Message string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Message)
}

// TimeoutError reports a poll loop that exhausted its policy budget before
// the task reached a terminal state.
type TimeoutError struct {
	TaskID   string
	Elapsed  time.Duration
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s still not terminal after %s (%d attempts)", e.TaskID, e.Elapsed.Round(time.Second), e.Attempts)
}
