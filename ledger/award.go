/*
award.go - The award engine: attendance in, point credits out

PURPOSE:
  Converts an organization's attendance submission into point awards,
  exactly once per registration. A batch of (volunteer, status) entries is
  processed independently: one bad entry becomes a warning, never a reason
  to drop the rest of the batch.

CRITICAL INVARIANTS:
  1. AT-MOST-ONCE: A registration whose points were already awarded is
     skipped with ErrAlreadyAwarded. Retried or repeated submissions never
     double-credit.
  2. PAIRED WRITES: The registration mutation and the volunteer's balance
     delta go through Store.ApplyAward as one atomic unit. Balance and
     ledger never diverge, even under concurrent submissions.
  3. OWNERSHIP: Only the organization that owns the event may mark its
     attendance. Failing that check mutates nothing.

POINT COMPUTATION (default policy):
  attended -> full event reward, plus 1 completed event and the event's
              duration (or 3 hours) of volunteer hours
  partial  -> floor(reward / 2)
  no_show  -> 0 (attendance still confirmed)

COMPLETION:
  After every batch the event's registrations are re-read from scratch;
  once all of them are confirmed (and at least one exists) the event
  transitions to completed. See completion.go.

SEE ALSO:
  - policy.go: The status -> points mapping
  - review.go: Admin corrections to awards made here
  - store.go: The atomicity contract ApplyAward relies on
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine applies awards and reconciliations against a Store.
type Engine struct {
	Store  Store
	Policy *AwardPolicy

	// Now is the clock for award and review timestamps. Overridable in tests.
	Now func() time.Time
}

// NewEngine creates an engine. A nil policy selects the default scheme.
func NewEngine(store Store, policy *AwardPolicy) *Engine {
	if policy == nil {
		policy = DefaultAwardPolicy()
	}
	return &Engine{
		Store:  store,
		Policy: policy,
		Now:    time.Now,
	}
}

// =============================================================================
// ATTENDANCE MARKING
// =============================================================================

// AttendanceEntry is one (volunteer, status) pair in a batch submission.
type AttendanceEntry struct {
	VolunteerID VolunteerID
	Status      AttendanceStatus
}

// AttendanceResult summarizes a batch submission. Counts are always
// reported, even when some entries warned.
type AttendanceResult struct {
	VolunteersMarked  int
	PointsDistributed int
	EventCompleted    bool
	Warnings          []string
}

// MarkAttendance records attendance decisions for one event and credits the
// resulting points.
//
// Operation-level preconditions abort the whole call with nothing mutated:
// the event must exist (ErrEventNotFound) and callerOrg must own it
// (ErrNotEventOwner). Per-entry failures - missing registration, tripped
// idempotency guard, unrecognized status - are collected as warnings and do
// not block sibling entries.
func (e *Engine) MarkAttendance(ctx context.Context, eventID EventID, callerOrg OrgID, entries []AttendanceEntry) (*AttendanceResult, error) {
	event, err := e.Store.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	if event.OrgID != callerOrg {
		return nil, fmt.Errorf("%w: event %s", ErrNotEventOwner, eventID)
	}

	result := &AttendanceResult{}
	for _, entry := range entries {
		points, err := e.awardOne(ctx, event, callerOrg, entry)
		if err != nil {
			if IsClientError(err) || errors.Is(err, ErrRegistrationNotFound) {
				result.Warnings = append(result.Warnings, err.Error())
				continue
			}
			return nil, err // store failure, abort
		}
		result.VolunteersMarked++
		result.PointsDistributed += points
	}

	completed, err := e.detectCompletion(ctx, eventID)
	if err != nil {
		return nil, err
	}
	result.EventCompleted = completed

	return result, nil
}

// awardOne processes a single batch entry. Returns the points credited.
func (e *Engine) awardOne(ctx context.Context, event *Event, callerOrg OrgID, entry AttendanceEntry) (int, error) {
	reg, err := e.Store.Registration(ctx, entry.VolunteerID, event.ID)
	if err != nil {
		return 0, err
	}
	if reg == nil {
		return 0, fmt.Errorf("%w for volunteer %s", ErrRegistrationNotFound, entry.VolunteerID)
	}
	if !reg.CanAward() {
		return 0, fmt.Errorf("volunteer %s: %w", entry.VolunteerID, ErrAlreadyAwarded)
	}

	points, err := e.Policy.PointsFor(entry.Status, event.PointsReward)
	if err != nil {
		return 0, fmt.Errorf("volunteer %s: %w", entry.VolunteerID, err)
	}

	reg.AttendanceStatus = entry.Status
	reg.AttendanceConfirmed = true
	reg.AwardedByOrg = &callerOrg

	delta := BalanceDelta{VolunteerID: reg.VolunteerID}
	if points > 0 {
		now := e.Now().UTC()
		reg.PointsAwarded = points
		reg.PointsAwardedAt = &now
		delta.Points = points
	}
	if entry.Status == AttendanceAttended {
		delta.EventsCompleted = 1
		delta.Hours = e.Policy.HoursFor(event)
	}

	if err := e.Store.ApplyAward(ctx, *reg, delta); err != nil {
		if errors.Is(err, ErrAlreadyAwarded) {
			// Lost the race to a concurrent submission for this registration.
			return 0, fmt.Errorf("volunteer %s: %w", entry.VolunteerID, ErrAlreadyAwarded)
		}
		return 0, err
	}
	return points, nil
}
