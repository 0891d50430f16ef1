// Package task implements the submit-then-poll protocol for backend
// operations that may answer asynchronously. A submission returning a task
// handle is polled until terminal; a submission returning a payload is the
// terminal result itself, so callers never need to know which kind of
// endpoint they hit.
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/AK067CSE/newsagent/internal/api"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// handle is the backend's acknowledgement of an asynchronous submission.
type handle struct {
	TaskID string `json:"task_id"`
}

// status is the observable state of a submitted task. Transition authority
// lives entirely on the backend.
type status struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Poller drives submissions through the request client. Each Execute call
// owns an independent loop; concurrent calls do not coordinate.
type Poller struct {
	client *api.Client
	policy Policy
	log    *bolt.Logger
}

// New creates a poller over client with the given policy. A non-positive
// interval falls back to DefaultPolicy's; a zero timeout stays unlimited
// per the Policy contract.
func New(client *api.Client, policy Policy, log *bolt.Logger) *Poller {
	if policy.Interval <= 0 {
		policy.Interval = DefaultPolicy.Interval
	}
	if policy.Timeout < 0 {
		policy.Timeout = DefaultPolicy.Timeout
	}
	return &Poller{client: client, policy: policy, log: log}
}

// Execute POSTs payload to endpoint and returns the terminal result.
// Synchronous responses (no task_id field) are returned verbatim without a
// single status probe. Submission failures are wrapped distinctly from
// polling failures so callers can offer "retry submission" versus
// "re-display cached result".
func (p *Poller) Execute(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	raw, err := p.client.PostJSON(ctx, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", endpoint, err)
	}

	var h handle
	if err := json.Unmarshal(raw, &h); err != nil || h.TaskID == "" {
		// No task handle: the operation answered synchronously.
		return raw, nil
	}

	if p.log != nil {
		p.log.Info().Str("endpoint", endpoint).Str("task_id", h.TaskID).Msg("task submitted, polling")
	}
	return p.wait(ctx, h.TaskID)
}

// wait polls the status endpoint at the policy interval until the task is
// terminal, the context is cancelled, or the policy budget runs out.
// Attempts are strictly sequential.
func (p *Poller) wait(ctx context.Context, taskID string) (json.RawMessage, error) {
	start := time.Now()
	attempts := 0

	for {
		raw, err := p.client.Get(ctx, api.TaskStatusEndpoint(taskID))
		if err != nil {
			return nil, fmt.Errorf("poll task %s: %w", taskID, err)
		}
		attempts++

		var st status
		if err := api.Decode(api.TaskStatusEndpoint(taskID), raw, &st); err != nil {
			return nil, fmt.Errorf("poll task %s: %w", taskID, err)
		}

		switch st.Status {
		case statusCompleted:
			result, err := p.client.Get(ctx, api.TaskResultEndpoint(taskID))
			if err != nil {
				return nil, fmt.Errorf("fetch result for task %s: %w", taskID, err)
			}
			return result, nil
		case statusFailed:
			msg := st.Error
			if msg == "" {
				msg = "backend reported failure without a message"
			}
			return nil, &FailedError{TaskID: taskID, Message: msg}
		}

		// pending/running/processing/started all mean "not yet".
		if p.policy.MaxAttempts > 0 && attempts >= p.policy.MaxAttempts {
			return nil, &TimeoutError{TaskID: taskID, Elapsed: time.Since(start), Attempts: attempts}
		}
		if p.policy.Timeout > 0 && time.Since(start)+p.policy.Interval > p.policy.Timeout {
			return nil, &TimeoutError{TaskID: taskID, Elapsed: time.Since(start), Attempts: attempts}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.policy.Interval):
		}
	}
}
