/*
store.go - Persistence interface for registrations, balances, and entities

PURPOSE:
  Defines the interface between the ledger core and the database. The Store
  owns the atomicity contract: a registration write and its paired balance
  delta are applied as one unit, never as two independent statements.

KEY CONTRACTS:
  ApplyAward:
    Persists an awarded registration together with the balance delta. The
    implementation MUST re-check the unawarded guard (points_awarded == 0)
    inside its own transaction and return ErrAlreadyAwarded when a
    concurrent award won the race. Two concurrent submissions for the same
    registration must never both credit points.

  ApplyReview:
    Persists a reviewed registration together with the balance delta.
    FloorAtZero deltas clamp the point balance and the completed-event
    count at zero (the revoke rule); other deltas apply raw.

  SaveRegistration:
    (volunteer, event) is unique. A second registration for the same pair
    returns ErrDuplicateRegistration.

NOT-FOUND CONVENTION:
  Single-entity getters return (nil, nil) when the entity is absent. The
  engine maps that onto the sentinel not-found errors; the store never
  invents them for reads.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - ledger/store/memory.go: In-memory for testing and dev mode

SEE ALSO:
  - award.go, review.go: The two writers
  - audit.go: Read-only consumers
*/
package ledger

import "context"

// =============================================================================
// DISTRIBUTION - Read projection over awards
// =============================================================================

// ReviewFilter narrows distribution listings by admin review state.
// Unrecognized values fall back to FilterAll.
type ReviewFilter string

const (
	FilterAll        ReviewFilter = "all"
	FilterUnreviewed ReviewFilter = "unreviewed"
	FilterReviewed   ReviewFilter = "reviewed"
)

// DistributionFilter selects which award rows a listing returns.
type DistributionFilter struct {
	Review ReviewFilter
	Org    *OrgID // nil = every organization
}

// Distribution is one award row joined with its volunteer, event, and
// awarding organization. Only registrations with awarded points > 0 appear;
// a revoked award drops out once its points are reset to zero, though its
// audit fields persist on the registration itself.
type Distribution struct {
	RegistrationID RegistrationID
	VolunteerID    VolunteerID
	VolunteerName  string
	EventID        EventID
	EventTitle     string
	EventDate      string
	OrgID          *OrgID
	OrgName        string

	AttendanceStatus AttendanceStatus
	PointsAwarded    int
	ExpectedPoints   int // the event's full reward, for auditor comparison
	PointsAwardedAt  string

	AdminReviewed   bool
	AdminReviewedAt string
	AdminNotes      string
}

// =============================================================================
// STORE - Interface for ledger persistence
// =============================================================================

// Store handles persistence for the ledger core and its entities.
type Store interface {
	// Organizations
	Organization(ctx context.Context, id OrgID) (*Organization, error)
	Organizations(ctx context.Context) ([]Organization, error)
	SaveOrganization(ctx context.Context, org Organization) error

	// Volunteers (the balance store)
	Volunteer(ctx context.Context, id VolunteerID) (*Volunteer, error)
	Volunteers(ctx context.Context) ([]Volunteer, error)
	SaveVolunteer(ctx context.Context, v Volunteer) error

	// Events
	Event(ctx context.Context, id EventID) (*Event, error)
	Events(ctx context.Context) ([]Event, error)
	EventsByOrg(ctx context.Context, orgID OrgID) ([]Event, error)
	SaveEvent(ctx context.Context, e Event) error
	SetEventStatus(ctx context.Context, id EventID, status EventStatus) error

	// Registrations (the ledger)
	Registration(ctx context.Context, volunteerID VolunteerID, eventID EventID) (*Registration, error)
	RegistrationByID(ctx context.Context, id RegistrationID) (*Registration, error)
	RegistrationsByEvent(ctx context.Context, eventID EventID) ([]Registration, error)
	RegistrationsByVolunteer(ctx context.Context, volunteerID VolunteerID) ([]Registration, error)
	SaveRegistration(ctx context.Context, r Registration) error

	// Distributions returns award rows (points > 0), newest award first.
	Distributions(ctx context.Context, filter DistributionFilter) ([]Distribution, error)

	// Atomic paired writes. See the package comment for the contract.
	ApplyAward(ctx context.Context, r Registration, delta BalanceDelta) error
	ApplyReview(ctx context.Context, r Registration, delta BalanceDelta) error
}
