package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actify/points-engine/ledger"
	"github.com/actify/points-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// awardedFixture seeds one event worth reward points, marks the volunteer
// attended, and returns the engine, store, and the awarded registration.
func awardedFixture(t *testing.T, reward int) (*ledger.Engine, *store.Memory, *ledger.Registration) {
	t.Helper()
	engine, mem := newTestEngine()
	seedEvent(t, mem, "evt-1", reward, "vol-1")
	markOne(t, engine, "evt-1", "vol-1", ledger.AttendanceAttended)
	return engine, mem, mustRegistration(t, mem, "vol-1", "evt-1")
}

func intPtr(n int) *int { return &n }

// =============================================================================
// APPROVE TESTS
// =============================================================================

func TestReview_Approve_StampsWithoutBalanceChange(t *testing.T) {
	// GIVEN: A 100-point award
	// WHEN: An admin approves it
	// THEN: The registration is stamped reviewed and the balance is unchanged

	engine, mem, reg := awardedFixture(t, 100)
	ctx := context.Background()

	result, err := engine.Review(ctx, ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewApprove,
		Notes:          "looks right",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, result.PointsBefore)
	assert.Equal(t, 100, result.PointsAfter)

	reviewed := mustRegistration(t, mem, "vol-1", "evt-1")
	assert.True(t, reviewed.AdminReviewed)
	assert.NotNil(t, reviewed.AdminReviewedAt)
	assert.Equal(t, "looks right", reviewed.AdminNotes)

	v := mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, 100, v.VolunteerPoints)
	assert.Equal(t, 1, v.EventsCompleted)
}

// =============================================================================
// ADJUST TESTS
// =============================================================================

func TestReview_Adjust_MovesBalanceByDelta(t *testing.T) {
	// GIVEN: A volunteer with a 250 balance, 100 of it from this award
	// WHEN: The award is adjusted down to 60
	// THEN: The balance moves by -40 to 210 and the registration shows 60

	engine, mem, reg := awardedFixture(t, 100)
	ctx := context.Background()

	// Lift the balance to 250 with unrelated points.
	v := mustVolunteer(t, mem, "vol-1")
	v.VolunteerPoints = 250
	require.NoError(t, mem.SaveVolunteer(ctx, *v))

	result, err := engine.Review(ctx, ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewAdjust,
		Notes:          "overcounted hours",
		NewPoints:      intPtr(60),
	})
	require.NoError(t, err)

	assert.Equal(t, 100, result.PointsBefore)
	assert.Equal(t, 60, result.PointsAfter)

	v = mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, 210, v.VolunteerPoints)
	// Adjust corrects the quantity only; attendance bookkeeping stands.
	assert.Equal(t, 1, v.EventsCompleted)

	adjusted := mustRegistration(t, mem, "vol-1", "evt-1")
	assert.Equal(t, 60, adjusted.PointsAwarded)
	assert.Equal(t, ledger.AttendanceAttended, adjusted.AttendanceStatus)
	assert.True(t, adjusted.AdminReviewed)
}

func TestReview_AdjustUpward_Allowed(t *testing.T) {
	// GIVEN: A 50-point partial award
	// WHEN: Adjusted up to 80
	// THEN: The balance gains the 30-point difference

	engine, mem := newTestEngine()
	seedEvent(t, mem, "evt-1", 100, "vol-1")
	markOne(t, engine, "evt-1", "vol-1", ledger.AttendancePartial)
	reg := mustRegistration(t, mem, "vol-1", "evt-1")

	_, err := engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewAdjust,
		NewPoints:      intPtr(80),
	})
	require.NoError(t, err)

	v := mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, 80, v.VolunteerPoints)
}

func TestReview_Adjust_NotFloored(t *testing.T) {
	// GIVEN: An award of 100 on a volunteer whose balance was independently
	//        dropped to 30
	// WHEN: The award is adjusted to 0
	// THEN: The raw -100 delta applies and the balance goes negative.
	//       Adjust deliberately does not floor; only revoke does.

	engine, mem, reg := awardedFixture(t, 100)
	ctx := context.Background()

	v := mustVolunteer(t, mem, "vol-1")
	v.VolunteerPoints = 30
	require.NoError(t, mem.SaveVolunteer(ctx, *v))

	_, err := engine.Review(ctx, ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewAdjust,
		NewPoints:      intPtr(0),
	})
	require.NoError(t, err)

	v = mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, -70, v.VolunteerPoints)
}

func TestReview_Adjust_RequiresNewPoints(t *testing.T) {
	engine, _, reg := awardedFixture(t, 100)

	_, err := engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewAdjust,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAction)

	_, err = engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewAdjust,
		NewPoints:      intPtr(-5),
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAction)
}

// =============================================================================
// REVOKE TESTS
// =============================================================================

func TestReview_Revoke_TakesAwardBack(t *testing.T) {
	// GIVEN: An attended award of 100 points
	// WHEN: The award is revoked
	// THEN: Balance and completed events drop, the registration zeroes out
	//       with status revoked

	engine, mem, reg := awardedFixture(t, 100)

	result, err := engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewRevoke,
		Notes:          "attendance disputed",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.PointsBefore)
	assert.Equal(t, 0, result.PointsAfter)

	v := mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, 0, v.VolunteerPoints)
	assert.Equal(t, 0, v.EventsCompleted)
	// Hours are not restored on revoke; the time was still spent.
	assert.Equal(t, 3, v.VolunteerHours)

	revoked := mustRegistration(t, mem, "vol-1", "evt-1")
	assert.Equal(t, ledger.AttendanceRevoked, revoked.AttendanceStatus)
	assert.Equal(t, 0, revoked.PointsAwarded)
	assert.True(t, revoked.AdminReviewed)
}

func TestReview_Revoke_FloorsBalanceAtZero(t *testing.T) {
	// GIVEN: A 100-point award on a volunteer whose balance was
	//        independently dropped to 30
	// WHEN: The award is revoked
	// THEN: The balance floors at 0, never going negative

	engine, mem, reg := awardedFixture(t, 100)
	ctx := context.Background()

	v := mustVolunteer(t, mem, "vol-1")
	v.VolunteerPoints = 30
	require.NoError(t, mem.SaveVolunteer(ctx, *v))

	_, err := engine.Review(ctx, ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewRevoke,
	})
	require.NoError(t, err)

	v = mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, 0, v.VolunteerPoints)
	assert.Equal(t, 0, v.EventsCompleted)
}

func TestReview_RevokePartial_NoCompletedEventChange(t *testing.T) {
	// GIVEN: A partial award (no completed event was credited)
	// WHEN: It is revoked
	// THEN: Only the points come back; events-completed stays untouched

	engine, mem := newTestEngine()
	seedEvent(t, mem, "evt-1", 100, "vol-1")
	markOne(t, engine, "evt-1", "vol-1", ledger.AttendancePartial)
	reg := mustRegistration(t, mem, "vol-1", "evt-1")

	_, err := engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         ledger.ReviewRevoke,
	})
	require.NoError(t, err)

	v := mustVolunteer(t, mem, "vol-1")
	assert.Equal(t, 0, v.VolunteerPoints)
	assert.Equal(t, 0, v.EventsCompleted)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestReview_UnknownAction_Rejected(t *testing.T) {
	engine, _, reg := awardedFixture(t, 100)

	_, err := engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: reg.ID,
		Action:         "escalate",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAction)
}

func TestReview_MissingRegistration_NotFound(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.Review(context.Background(), ledger.ReviewInput{
		RegistrationID: "reg-nope",
		Action:         ledger.ReviewApprove,
	})
	assert.ErrorIs(t, err, ledger.ErrRegistrationNotFound)
}
