/*
policy.go - Award policy: attendance status to point computation

PURPOSE:
  Defines how an attendance status converts into points. Each markable
  status maps to a fraction of the event's point reward; the awarded amount
  is always floor(reward * fraction). The default policy is the standard
  scheme (full points for attended, half for partial, nothing for no_show),
  but deployments can load alternatives through the factory package.

WHY decimal?
  Fractions like 1/2 must floor exactly: a 101-point event at "partial" is
  50 points, never 50.5 or 51. decimal.Decimal keeps the multiplication
  exact before the floor; float64 would drift on less convenient fractions.

HOURS:
  Marking a volunteer "attended" also credits volunteer hours: the event's
  duration when set, otherwise the policy's default (3 hours).

SEE ALSO:
  - factory/policy.go: JSON to AwardPolicy conversion
  - award.go: Applies the policy per batch entry
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultVolunteerHours is credited for an attended event with no duration.
const DefaultVolunteerHours = 3

// =============================================================================
// AWARD POLICY
// =============================================================================

// AwardPolicy maps attendance statuses to fractions of the event reward.
// Statuses absent from the map are rejected with ErrInvalidStatus.
type AwardPolicy struct {
	ID           string
	Name         string
	Fractions    map[AttendanceStatus]decimal.Decimal
	DefaultHours int
}

// DefaultAwardPolicy returns the standard scheme:
// attended = full reward, partial = floor(half), no_show = zero.
func DefaultAwardPolicy() *AwardPolicy {
	return &AwardPolicy{
		ID:   "standard-awards",
		Name: "Standard Attendance Awards",
		Fractions: map[AttendanceStatus]decimal.Decimal{
			AttendanceAttended: decimal.NewFromInt(1),
			AttendancePartial:  decimal.New(5, -1), // 0.5
			AttendanceNoShow:   decimal.Zero,
		},
		DefaultHours: DefaultVolunteerHours,
	}
}

// PointsFor computes the points awarded for marking a registration with the
// given status against an event worth reward points.
func (p *AwardPolicy) PointsFor(status AttendanceStatus, reward int) (int, error) {
	fraction, ok := p.Fractions[status]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	points := decimal.NewFromInt(int64(reward)).Mul(fraction).Floor()
	return int(points.IntPart()), nil
}

// HoursFor returns the volunteer hours credited for attending the event.
func (p *AwardPolicy) HoursFor(event *Event) int {
	if event.DurationHours > 0 {
		return event.DurationHours
	}
	if p.DefaultHours > 0 {
		return p.DefaultHours
	}
	return DefaultVolunteerHours
}
