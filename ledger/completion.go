/*
completion.go - Detects when an event's attendance bookkeeping is finished

PURPOSE:
  After each attendance batch the event's registrations are re-read and the
  event transitions to completed once every registration has a confirmed
  attendance decision. The evaluation is always from scratch - never
  incremental - so partial batches in any order converge on the same
  answer, and repeated calls are harmless.

SEE ALSO:
  - award.go: Invokes this after every batch
*/
package ledger

import "context"

// detectCompletion re-evaluates the event's completion state and, when every
// registration is confirmed, transitions the event to completed. An event
// with no registrations never completes.
func (e *Engine) detectCompletion(ctx context.Context, eventID EventID) (bool, error) {
	regs, err := e.Store.RegistrationsByEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	if len(regs) == 0 {
		return false, nil
	}
	for _, r := range regs {
		if !r.AttendanceConfirmed {
			return false, nil
		}
	}
	if err := e.Store.SetEventStatus(ctx, eventID, EventCompleted); err != nil {
		return false, err
	}
	return true, nil
}
