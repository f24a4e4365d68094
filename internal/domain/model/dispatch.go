package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// DispatchStatus is the aggregate verdict of one fan-out.
type DispatchStatus string

const (
	StatusAllSucceeded   DispatchStatus = "all_succeeded"
	StatusPartialFailure DispatchStatus = "partial_failure"
	StatusAllFailed      DispatchStatus = "all_failed"
)

// ChannelFailure is the error outcome of a single channel send.
type ChannelFailure struct {
	Provider Provider
	Err      error
}

func (f ChannelFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Provider, f.Err)
}

func (f ChannelFailure) Unwrap() error {
	return f.Err
}

// DispatchReport collects the per-channel outcomes of one fan-out.
type DispatchReport struct {
	ID         uuid.UUID
	Configured int
	Failures   []ChannelFailure
}

// Status reduces the report under the best-effort policy: anything short of a
// total outage counts as delivered.
func (r DispatchReport) Status() DispatchStatus {
	switch {
	case len(r.Failures) == 0:
		return StatusAllSucceeded
	case len(r.Failures) < r.Configured:
		return StatusPartialFailure
	default:
		return StatusAllFailed
	}
}

// Err returns a *DispatchError when every configured channel failed, nil otherwise.
func (r DispatchReport) Err() error {
	if r.Configured == 0 || r.Status() != StatusAllFailed {
		return nil
	}
	return NewDispatchError(r.Failures)
}

// DispatchError is returned when no configured channel delivered the notification.
type DispatchError struct {
	Failures []ChannelFailure
	err      error
}

// NewDispatchError builds the aggregate error. Failures are ordered by provider so
// the message is stable regardless of completion order.
func NewDispatchError(failures []ChannelFailure) *DispatchError {
	sorted := make([]ChannelFailure, len(failures))
	copy(sorted, failures)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Provider < sorted[j].Provider })

	var combined error
	for _, f := range sorted {
		combined = multierr.Append(combined, f)
	}
	return &DispatchError{Failures: sorted, err: combined}
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("all %d notification channels failed: %v", len(e.Failures), e.err)
}

// Errors returns one error per failed channel.
func (e *DispatchError) Errors() []error {
	return multierr.Errors(e.err)
}

// Is makes every DispatchError match ErrNotification.
func (e *DispatchError) Is(target error) bool {
	return target == ErrNotification
}
