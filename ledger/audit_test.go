package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/actify/points-engine/ledger"
	"github.com/actify/points-engine/ledger/store"
)

// =============================================================================
// SETUP
// =============================================================================

// auditFixture seeds two orgs with one event each, registers volunteers, and
// marks a mix of outcomes:
//
//	evt-a (org-1, 100 pts): vol-1 attended, vol-2 partial, vol-3 no_show
//	evt-b (org-2, 80 pts):  vol-1 attended, vol-2 pending
func auditFixture(t *testing.T) (*ledger.Engine, *store.Memory) {
	t.Helper()
	engine, mem := newTestEngine()
	ctx := context.Background()

	seedEvent(t, mem, "evt-a", 100, "vol-1", "vol-2", "vol-3")

	if err := mem.SaveOrganization(ctx, ledger.Organization{
		ID: "org-2", Name: "Other Org",
	}); err != nil {
		t.Fatalf("failed to seed org-2: %v", err)
	}
	if err := mem.SaveEvent(ctx, ledger.Event{
		ID: "evt-b", OrgID: "org-2", Title: "Other Event",
		Date:         time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC),
		PointsReward: 80, Status: ledger.EventActive,
	}); err != nil {
		t.Fatalf("failed to seed evt-b: %v", err)
	}
	for _, vid := range []ledger.VolunteerID{"vol-1", "vol-2"} {
		if err := mem.SaveRegistration(ctx, ledger.Registration{
			ID:          ledger.RegistrationID("reg-evt-b-" + string(vid)),
			VolunteerID: vid, EventID: "evt-b",
			AttendanceStatus: ledger.AttendancePending,
			RegisteredAt:     time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("failed to seed registration: %v", err)
		}
	}

	if _, err := engine.MarkAttendance(ctx, "evt-a", "org-1", []ledger.AttendanceEntry{
		{VolunteerID: "vol-1", Status: ledger.AttendanceAttended},
		{VolunteerID: "vol-2", Status: ledger.AttendancePartial},
		{VolunteerID: "vol-3", Status: ledger.AttendanceNoShow},
	}); err != nil {
		t.Fatalf("failed to mark evt-a: %v", err)
	}
	if _, err := engine.MarkAttendance(ctx, "evt-b", "org-2", []ledger.AttendanceEntry{
		{VolunteerID: "vol-1", Status: ledger.AttendanceAttended},
	}); err != nil {
		t.Fatalf("failed to mark evt-b: %v", err)
	}

	return engine, mem
}

// =============================================================================
// ATTENDANCE SUMMARY TESTS
// =============================================================================

func TestSummary_CountsAndCompleteness(t *testing.T) {
	// GIVEN: evt-a fully marked, evt-b with one pending registration
	// WHEN: Each owner asks for its summary
	// THEN: Counts match and completeness tracks the pending count

	engine, _ := auditFixture(t)
	ctx := context.Background()

	a, err := engine.Summary(ctx, "evt-a", "org-1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if a.TotalRegistered != 3 || a.Attended != 1 || a.Partial != 1 || a.NoShow != 1 || a.Pending != 0 {
		t.Errorf("unexpected evt-a counts: %+v", a)
	}
	if a.TotalPointsDistributed != 150 {
		t.Errorf("expected 150 points on evt-a, got %d", a.TotalPointsDistributed)
	}
	if !a.AttendanceComplete {
		t.Error("evt-a should be complete")
	}

	b, err := engine.Summary(ctx, "evt-b", "org-2")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if b.Pending != 1 {
		t.Errorf("expected 1 pending on evt-b, got %d", b.Pending)
	}
	if b.AttendanceComplete {
		t.Error("evt-b should not be complete")
	}
}

func TestSummary_WrongOrg_Forbidden(t *testing.T) {
	engine, _ := auditFixture(t)

	_, err := engine.Summary(context.Background(), "evt-a", "org-2")
	if !errors.Is(err, ledger.ErrNotEventOwner) {
		t.Fatalf("expected ErrNotEventOwner, got %v", err)
	}
}

// =============================================================================
// DISTRIBUTION LISTING TESTS
// =============================================================================

func TestDistributions_OnlyAwardedRows_NewestFirst(t *testing.T) {
	// GIVEN: Three positive awards (two on evt-a, one on evt-b) and one
	//        zero-point no_show
	// WHEN: Listing all distributions
	// THEN: Only the positive awards appear

	engine, _ := auditFixture(t)

	dists, err := engine.Distributions(context.Background(), ledger.FilterAll)
	if err != nil {
		t.Fatalf("Distributions failed: %v", err)
	}
	if len(dists) != 3 {
		t.Fatalf("expected 3 distributions, got %d", len(dists))
	}
	for _, d := range dists {
		if d.PointsAwarded <= 0 {
			t.Errorf("distribution with non-positive points: %+v", d)
		}
	}
}

func TestDistributions_ReviewFilter(t *testing.T) {
	// GIVEN: One of three awards reviewed
	// WHEN: Listing with each filter
	// THEN: unreviewed returns 2, reviewed returns 1, all returns 3

	engine, mem := auditFixture(t)
	ctx := context.Background()

	reg := mustRegistration(t, mem, "vol-2", "evt-a")
	if _, err := engine.Review(ctx, ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewApprove,
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	cases := []struct {
		filter ledger.ReviewFilter
		want   int
	}{
		{ledger.FilterAll, 3},
		{ledger.FilterUnreviewed, 2},
		{ledger.FilterReviewed, 1},
		{"bogus", 3}, // unknown filters list everything
	}
	for _, c := range cases {
		dists, err := engine.Distributions(ctx, c.filter)
		if err != nil {
			t.Fatalf("Distributions(%s) failed: %v", c.filter, err)
		}
		if len(dists) != c.want {
			t.Errorf("filter %s: expected %d, got %d", c.filter, c.want, len(dists))
		}
	}
}

func TestDistributions_DropAfterRevoke(t *testing.T) {
	// GIVEN: An awarded distribution
	// WHEN: It is revoked
	// THEN: It leaves the listing; its points are zero

	engine, mem := auditFixture(t)
	ctx := context.Background()

	reg := mustRegistration(t, mem, "vol-1", "evt-b")
	if _, err := engine.Review(ctx, ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewRevoke,
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	dists, err := engine.Distributions(ctx, ledger.FilterAll)
	if err != nil {
		t.Fatalf("Distributions failed: %v", err)
	}
	if len(dists) != 2 {
		t.Errorf("expected 2 distributions after revoke, got %d", len(dists))
	}
}

// =============================================================================
// PER-ORGANIZATION AGGREGATES
// =============================================================================

func TestPointsByOrganization_IncludesIdleOrgs(t *testing.T) {
	// GIVEN: Two orgs with awards and one org with none
	// WHEN: Aggregating per organization
	// THEN: All three appear, the idle one with zero counts

	engine, mem := auditFixture(t)
	ctx := context.Background()

	if err := mem.SaveOrganization(ctx, ledger.Organization{
		ID: "org-idle", Name: "Idle Org",
	}); err != nil {
		t.Fatalf("failed to seed idle org: %v", err)
	}

	summaries, err := engine.PointsByOrganization(ctx)
	if err != nil {
		t.Fatalf("PointsByOrganization failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 org summaries, got %d", len(summaries))
	}

	byOrg := map[ledger.OrgID]ledger.OrgPointsSummary{}
	for _, s := range summaries {
		byOrg[s.OrgID] = s
	}

	if s := byOrg["org-1"]; s.TotalDistributions != 2 || s.TotalPointsAwarded != 150 {
		t.Errorf("unexpected org-1 aggregate: %+v", s)
	}
	if s := byOrg["org-2"]; s.TotalDistributions != 1 || s.TotalPointsAwarded != 80 {
		t.Errorf("unexpected org-2 aggregate: %+v", s)
	}
	if s := byOrg["org-idle"]; s.TotalDistributions != 0 || s.TotalPointsAwarded != 0 {
		t.Errorf("unexpected idle org aggregate: %+v", s)
	}
}

// =============================================================================
// STATS
// =============================================================================

func TestStats_EventAndDistributionCounts(t *testing.T) {
	engine, mem := auditFixture(t)
	ctx := context.Background()

	if err := mem.SaveEvent(ctx, ledger.Event{
		ID: "evt-pending", OrgID: "org-1", Title: "Awaiting Approval",
		Date:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		Status: ledger.EventPending,
	}); err != nil {
		t.Fatalf("failed to seed pending event: %v", err)
	}

	stats, err := engine.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	// evt-a completed by its batch; evt-b still active; one pending.
	if stats.TotalEvents != 3 {
		t.Errorf("expected 3 events, got %d", stats.TotalEvents)
	}
	if stats.CompletedEvents != 1 {
		t.Errorf("expected 1 completed event, got %d", stats.CompletedEvents)
	}
	if stats.ActiveEvents != 1 {
		t.Errorf("expected 1 active event, got %d", stats.ActiveEvents)
	}
	if stats.PendingEvents != 1 {
		t.Errorf("expected 1 pending event, got %d", stats.PendingEvents)
	}
	if stats.TotalDistributions != 3 {
		t.Errorf("expected 3 distributions, got %d", stats.TotalDistributions)
	}
	if stats.TotalPointsDistributed != 230 {
		t.Errorf("expected 230 points distributed, got %d", stats.TotalPointsDistributed)
	}
	if stats.UnreviewedDistributions != 3 {
		t.Errorf("expected 3 unreviewed, got %d", stats.UnreviewedDistributions)
	}
}

// =============================================================================
// INTEGRITY CHECK
// =============================================================================

func TestVerifyBalance_DetectsDrift(t *testing.T) {
	// GIVEN: A balance corrupted behind the ledger's back
	// WHEN: The balance is verified
	// THEN: The drift surfaces as ErrLedgerDrift and is not repaired

	engine, mem := auditFixture(t)
	ctx := context.Background()

	v := mustVolunteer(t, mem, "vol-1")
	v.VolunteerPoints += 40
	if err := mem.SaveVolunteer(ctx, *v); err != nil {
		t.Fatalf("failed to corrupt balance: %v", err)
	}

	check, err := engine.VerifyBalance(ctx, "vol-1")
	if !errors.Is(err, ledger.ErrLedgerDrift) {
		t.Fatalf("expected ErrLedgerDrift, got %v", err)
	}
	if check.Consistent {
		t.Error("check should report inconsistency")
	}
	if check.LedgerTotal != 180 || check.Balance != 220 {
		t.Errorf("unexpected check values: %+v", check)
	}

	// The drift is surfaced, never repaired.
	v = mustVolunteer(t, mem, "vol-1")
	if v.VolunteerPoints != 220 {
		t.Errorf("expected the corrupted balance to stand, got %d", v.VolunteerPoints)
	}
}

func TestVerifyBalance_MissingVolunteer(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.VerifyBalance(context.Background(), "vol-nope")
	if !errors.Is(err, ledger.ErrVolunteerNotFound) {
		t.Fatalf("expected ErrVolunteerNotFound, got %v", err)
	}
}
