/*
review.go - The reconciliation engine: administrator corrections to awards

PURPOSE:
  Lets an administrator audit a point distribution and, when needed, correct
  it. Every action stamps the reviewer metadata (reviewed flag, timestamp,
  notes); adjust and revoke additionally replay a balance delta onto the
  volunteer, atomically with the registration write.

ACTIONS:
  approve: Mark reviewed. No balance change.
  adjust:  Override the awarded quantity. The volunteer's balance moves by
           newPoints - pointsAwarded, applied raw. Attendance status,
           completed events, and hours are untouched - only the point
           quantity is corrected.
  revoke:  Take the award back. The balance drops by the awarded points,
           floored at zero; an attended registration also gives back its
           completed-event count (floored at zero). The registration ends
           at zero points with status revoked.

FLOOR ASYMMETRY:
  revoke floors at zero; adjust does not. An adjustment racing unrelated
  revokes can in principle drive a balance negative. That asymmetry is the
  system's historical behavior and is deliberately preserved until product
  says otherwise - do not "fix" it here.

SEE ALSO:
  - award.go: Makes the awards corrected here
  - audit.go: The listings administrators review from
*/
package ledger

import (
	"context"
	"fmt"
)

// =============================================================================
// REVIEW
// =============================================================================

// ReviewInput describes one administrator correction.
type ReviewInput struct {
	RegistrationID RegistrationID
	Action         ReviewAction
	Notes          string
	NewPoints      *int // required for adjust, ignored otherwise
}

// ReviewResult reports the registration's awarded points after the action.
type ReviewResult struct {
	RegistrationID RegistrationID
	Action         ReviewAction
	PointsBefore   int
	PointsAfter    int
}

// Review applies an administrator correction to a single registration.
// Caller identity is resolved upstream; any active administrator may review.
func (e *Engine) Review(ctx context.Context, in ReviewInput) (*ReviewResult, error) {
	reg, err := e.Store.RegistrationByID(ctx, in.RegistrationID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: %s", ErrRegistrationNotFound, in.RegistrationID)
	}

	before := reg.PointsAwarded
	delta := BalanceDelta{VolunteerID: reg.VolunteerID}

	switch in.Action {
	case ReviewApprove:
		// Reviewed only; the delta stays zero.

	case ReviewAdjust:
		if in.NewPoints == nil {
			return nil, fmt.Errorf("%w: adjust requires newPoints", ErrInvalidAction)
		}
		if *in.NewPoints < 0 {
			return nil, fmt.Errorf("%w: newPoints must be >= 0", ErrInvalidAction)
		}
		delta.Points = *in.NewPoints - reg.PointsAwarded
		reg.PointsAwarded = *in.NewPoints

	case ReviewRevoke:
		delta.Points = -reg.PointsAwarded
		delta.FloorAtZero = true
		if reg.AttendanceStatus == AttendanceAttended {
			delta.EventsCompleted = -1
		}
		reg.PointsAwarded = 0
		reg.AttendanceStatus = AttendanceRevoked

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, in.Action)
	}

	now := e.Now().UTC()
	reg.AdminReviewed = true
	reg.AdminReviewedAt = &now
	reg.AdminNotes = in.Notes

	if err := e.Store.ApplyReview(ctx, *reg, delta); err != nil {
		return nil, err
	}

	return &ReviewResult{
		RegistrationID: reg.ID,
		Action:         in.Action,
		PointsBefore:   before,
		PointsAfter:    reg.PointsAwarded,
	}, nil
}
