/*
audit.go - Read-only projections over the points ledger

PURPOSE:
  The views administrators and organizations audit from. Everything here is
  a pure read: no projection mutates the ledger, and two groupings are
  provided - a flat filterable list of distributions across the system, and
  a per-organization aggregate for dashboards.

A DISTRIBUTION:
  Any registration whose awarded points are > 0. A revoked award drops out
  of current-distribution views once its points reset to zero; its review
  metadata stays on the registration for history.

INTEGRITY:
  VerifyBalance recomputes a volunteer's ledger total and compares it with
  the stored balance. A mismatch is surfaced as ErrLedgerDrift - it means
  write atomicity was violated somewhere, and it is never repaired here.

SEE ALSO:
  - store.go: The Distributions projection contract
  - review.go: Acts on what these views surface
*/
package ledger

import (
	"context"
	"fmt"
)

// =============================================================================
// ATTENDANCE SUMMARY - Per-event view for the owning organization
// =============================================================================

// AttendanceSummary is the per-event attendance bookkeeping view.
type AttendanceSummary struct {
	EventID    EventID
	EventTitle string
	EventDate  string

	TotalRegistered int
	Attended        int
	Partial         int
	NoShow          int
	Pending         int

	TotalPointsDistributed int
	AttendanceComplete     bool
}

// Summary returns the attendance bookkeeping state for an event. Same
// ownership rule as marking attendance: only the owning organization may
// look, and a failed check reads nothing further.
func (e *Engine) Summary(ctx context.Context, eventID EventID, callerOrg OrgID) (*AttendanceSummary, error) {
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

	regs, err := e.Store.RegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s := &AttendanceSummary{
		EventID:         event.ID,
		EventTitle:      event.Title,
		EventDate:       event.Date.Format("2006-01-02"),
		TotalRegistered: len(regs),
	}
	for _, r := range regs {
		switch r.AttendanceStatus {
		case AttendanceAttended:
			s.Attended++
		case AttendancePartial:
			s.Partial++
		case AttendanceNoShow:
			s.NoShow++
		case AttendancePending:
			s.Pending++
		}
		s.TotalPointsDistributed += r.PointsAwarded
	}
	s.AttendanceComplete = s.Pending == 0
	return s, nil
}

// =============================================================================
// DISTRIBUTION LISTINGS
// =============================================================================

// Distributions returns award rows filtered by review state, newest first.
// Unrecognized filter values list everything.
func (e *Engine) Distributions(ctx context.Context, review ReviewFilter) ([]Distribution, error) {
	return e.Store.Distributions(ctx, DistributionFilter{Review: review})
}

// OrgDistributions returns the awards one organization made, newest first.
func (e *Engine) OrgDistributions(ctx context.Context, orgID OrgID) ([]Distribution, error) {
	return e.Store.Distributions(ctx, DistributionFilter{Review: FilterAll, Org: &orgID})
}

// =============================================================================
// PER-ORGANIZATION AGGREGATES
// =============================================================================

// OrgPointsSummary aggregates one organization's distributions.
type OrgPointsSummary struct {
	OrgID              OrgID
	OrgName            string
	Verified           bool
	TotalDistributions int
	TotalPointsAwarded int
	UnreviewedCount    int
}

// PointsByOrganization aggregates distributions per organization. Every
// organization is listed, including ones with no distributions yet.
func (e *Engine) PointsByOrganization(ctx context.Context) ([]OrgPointsSummary, error) {
	orgs, err := e.Store.Organizations(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrgPointsSummary, 0, len(orgs))
	for _, org := range orgs {
		dists, err := e.OrgDistributions(ctx, org.ID)
		if err != nil {
			return nil, err
		}
		s := OrgPointsSummary{
			OrgID:              org.ID,
			OrgName:            org.Name,
			Verified:           org.Verified,
			TotalDistributions: len(dists),
		}
		for _, d := range dists {
			s.TotalPointsAwarded += d.PointsAwarded
			if !d.AdminReviewed {
				s.UnreviewedCount++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// =============================================================================
// SYSTEM STATS - Admin dashboard
// =============================================================================

// LedgerStats is the admin dashboard aggregate.
type LedgerStats struct {
	TotalEvents     int
	PendingEvents   int
	ActiveEvents    int
	RejectedEvents  int
	CompletedEvents int

	TotalDistributions      int
	TotalPointsDistributed  int
	UnreviewedDistributions int
}

// Stats computes system-wide event and distribution counts.
func (e *Engine) Stats(ctx context.Context) (*LedgerStats, error) {
	events, err := e.Store.Events(ctx)
	if err != nil {
		return nil, err
	}

	stats := &LedgerStats{TotalEvents: len(events)}
	for _, ev := range events {
		switch ev.Status {
		case EventPending:
			stats.PendingEvents++
		case EventActive:
			stats.ActiveEvents++
		case EventRejected:
			stats.RejectedEvents++
		case EventCompleted:
			stats.CompletedEvents++
		}
	}

	dists, err := e.Distributions(ctx, FilterAll)
	if err != nil {
		return nil, err
	}
	stats.TotalDistributions = len(dists)
	for _, d := range dists {
		stats.TotalPointsDistributed += d.PointsAwarded
		if !d.AdminReviewed {
			stats.UnreviewedDistributions++
		}
	}
	return stats, nil
}

// =============================================================================
// INTEGRITY CHECK
// =============================================================================

// BalanceCheck is the result of reconciling one volunteer's balance against
// their registrations.
type BalanceCheck struct {
	VolunteerID VolunteerID
	LedgerTotal int // sum of awarded points over non-revoked registrations
	Balance     int // the stored aggregate
	Consistent  bool
}

// VerifyBalance recomputes the ledger total for a volunteer and compares it
// with the stored balance. On mismatch the check is returned together with
// ErrLedgerDrift; the drift is never repaired.
func (e *Engine) VerifyBalance(ctx context.Context, volunteerID VolunteerID) (*BalanceCheck, error) {
	v, err := e.Store.Volunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVolunteerNotFound, volunteerID)
	}

	regs, err := e.Store.RegistrationsByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range regs {
		if r.AttendanceStatus == AttendanceRevoked {
			continue
		}
		total += r.PointsAwarded
	}

	check := &BalanceCheck{
		VolunteerID: volunteerID,
		LedgerTotal: total,
		Balance:     v.VolunteerPoints,
		Consistent:  total == v.VolunteerPoints,
	}
	if !check.Consistent {
		return check, &DriftError{VolunteerID: volunteerID, LedgerTotal: total, Balance: v.VolunteerPoints}
	}
	return check, nil
}
