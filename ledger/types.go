/*
Package ledger provides the volunteer points ledger core.

PURPOSE:
  This package contains the domain types and algorithms that turn event
  attendance into point awards, keep per-volunteer balances consistent with
  the underlying registration ledger, and let administrators audit and
  correct awards after the fact.

KEY CONCEPTS IN THIS FILE (types.go):
  - Registration: One volunteer's enrollment in one event - the ledger entry
  - Balance: Per-volunteer running aggregates (points, events, hours)
  - BalanceDelta: The paired balance mutation applied with a ledger write
  - Event/Organization/Volunteer: The entities the ledger references
  - Typed IDs: Strong typing prevents mixing volunteer/event/org identifiers

DESIGN PRINCIPLES:
  1. Paired writes: Every change to a registration's awarded points carries
     the equal-and-opposite delta to the volunteer's balance, applied as one
     atomic unit by the Store.
  2. Idempotency: An award is made at most once per registration. The guard
     is an explicit precondition (CanAward), not an ad hoc nil check.
  3. Auditability: Awards record who made them and when; admin corrections
     record reviewer metadata alongside the change.

USAGE:
  engine := ledger.NewEngine(store, nil) // nil = default award policy
  result, err := engine.MarkAttendance(ctx, eventID, orgID, entries)

SEE ALSO:
  - award.go: Attendance marking and point computation
  - review.go: Administrator corrections (approve, adjust, revoke)
  - audit.go: Read-only projections over awards
  - store.go: Persistence interface
*/
package ledger

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OrgID string
type VolunteerID string
type EventID string
type RegistrationID string

// =============================================================================
// ATTENDANCE STATUS - The registration state machine
// =============================================================================

// AttendanceStatus is the attendance outcome recorded on a registration.
//
// Lifecycle:
//
//	pending -> attended | partial | no_show   (organization marks attendance)
//	attended | partial  -> revoked            (admin revokes the award)
type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "pending"
	AttendanceAttended AttendanceStatus = "attended"
	AttendancePartial  AttendanceStatus = "partial"
	AttendanceNoShow   AttendanceStatus = "no_show"
	AttendanceRevoked  AttendanceStatus = "revoked"
)

// MarkableStatuses are the values an organization may submit for a volunteer.
// pending and revoked are system-assigned, never caller-supplied.
var MarkableStatuses = []AttendanceStatus{
	AttendanceAttended,
	AttendancePartial,
	AttendanceNoShow,
}

// =============================================================================
// EVENT STATUS
// =============================================================================

type EventStatus string

const (
	EventPending   EventStatus = "pending"   // awaiting admin approval
	EventActive    EventStatus = "active"    // approved, open for registration
	EventRejected  EventStatus = "rejected"  // rejected by admin
	EventCompleted EventStatus = "completed" // attendance bookkeeping finished
)

// =============================================================================
// REVIEW ACTION - Administrator corrections
// =============================================================================

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve" // mark reviewed, no balance change
	ReviewAdjust  ReviewAction = "adjust"  // override the awarded point quantity
	ReviewRevoke  ReviewAction = "revoke"  // take back the award entirely
)

// =============================================================================
// ENTITIES
// =============================================================================

// Organization hosts events and records attendance. For the ledger core it
// is attribution only: awards carry the org identity for audit grouping.
type Organization struct {
	ID        OrgID
	Name      string
	Email     string
	Verified  bool
	CreatedAt time.Time
}

// Event is an activity offered by one organization.
type Event struct {
	ID            EventID
	OrgID         OrgID
	Title         string
	Date          time.Time
	DurationHours int // 0 means unset; award falls back to the policy default
	Capacity      int
	PointsReward  int // points for full attendance, always >= 0
	Status        EventStatus
	CreatedAt     time.Time
}

// Balance is a volunteer's running aggregate, derived from their
// registrations. Mutated exclusively through award, adjust, and revoke.
type Balance struct {
	VolunteerPoints int
	EventsCompleted int
	VolunteerHours  int
}

// Volunteer is the entity whose balance accrues.
type Volunteer struct {
	ID    VolunteerID
	Name  string
	Email string
	Balance
	CreatedAt time.Time
}

// =============================================================================
// REGISTRATION - The ledger entry
// =============================================================================

// Registration is one volunteer's enrollment record for one event, unique on
// the (volunteer, event) pair. It is the unit of the points ledger: the
// awarded points on a registration and the volunteer's balance must always
// reconcile.
type Registration struct {
	ID          RegistrationID
	VolunteerID VolunteerID
	EventID     EventID

	AttendanceStatus    AttendanceStatus
	AttendanceConfirmed bool

	PointsAwarded   int // >= 0; what was actually credited for this entry
	PointsAwardedAt *time.Time
	AwardedByOrg    *OrgID

	AdminReviewed   bool
	AdminReviewedAt *time.Time
	AdminNotes      string

	RegisteredAt time.Time
}

// CanAward reports whether this registration is still in the unawarded state.
//
// The award state progresses unawarded -> awarded -> reconciled; an award is
// only ever made from the unawarded state. The guard is the awarded point
// quantity itself: a no_show marking leaves points at zero, so a later batch
// may re-mark it - that matches how organizations correct a mistaken no_show
// before any points have moved.
func (r *Registration) CanAward() bool {
	return r.PointsAwarded == 0
}

// =============================================================================
// BALANCE DELTA - Paired balance mutation
// =============================================================================

// BalanceDelta is the balance change applied atomically with a registration
// write. Points and EventsCompleted may be negative (revoke, downward
// adjust); FloorAtZero clamps points and events-completed at zero on the way
// down, which is the revoke rule. Adjust applies its delta raw.
type BalanceDelta struct {
	VolunteerID     VolunteerID
	Points          int
	EventsCompleted int
	Hours           int
	FloorAtZero     bool
}

// IsZero reports whether applying the delta would change nothing.
func (d BalanceDelta) IsZero() bool {
	return d.Points == 0 && d.EventsCompleted == 0 && d.Hours == 0
}
