package task

import "time"

// Policy bounds a poll loop. A zero Timeout or MaxAttempts disables that
// limit, but DefaultPolicy always carries a deadline: the backend owns task
// state transitions and an abandoned task must not pin a loop forever.
type Policy struct {
	Interval    time.Duration `json:"interval"`
	Timeout     time.Duration `json:"timeout"`
	MaxAttempts int           `json:"max_attempts"`
}

// DefaultPolicy matches the backend's expected cadence: one status probe
// every two seconds, giving up after ten minutes.
var DefaultPolicy = Policy{
	Interval: 2 * time.Second,
	Timeout:  10 * time.Minute,
}
