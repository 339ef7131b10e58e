/*
Package factory provides JSON to Go award-policy conversion.

PURPOSE:
  Converts JSON policy definitions into ledger.AwardPolicy objects. This
  enables award configuration without code changes - program staff can
  define how each attendance status pays out in JSON, and the factory
  creates the proper Go structs.

WHY JSON?
  - Non-developers can modify award fractions
  - Easy integration with admin UI
  - Version control for policy definitions
  - Database storage of policy configs

JSON SCHEMA:
  {
    "id": "standard-awards",
    "name": "Standard Awards",
    "fractions": {
      "attended": "1",
      "partial": "0.5",
      "no_show": "0"
    },
    "default_hours": 3
  }

  Fractions are decimal strings, not floats: "0.5" parses exactly, so
  floor(reward * fraction) is deterministic for every reward value.

KEY FEATURES:
  - Validates that every fraction names a markable attendance status
  - Rejects negative fractions
  - Sets the default-hours fallback for events without a duration

USAGE:
  factory := NewPolicyFactory()

  policy, err := factory.ParsePolicy(jsonString)
  if err != nil {
      log.Fatal(err)
  }

  engine := ledger.NewEngine(store, policy)

SEE ALSO:
  - ledger/policy.go: AwardPolicy type and the payout computation
  - ledger/award.go: Where the policy is applied
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/actify/points-engine/ledger"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of an award policy.
type PolicyJSON struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Fractions    map[string]string `json:"fractions"`
	DefaultHours int               `json:"default_hours,omitempty"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory creates award policies from JSON definitions.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy converts a JSON string into an AwardPolicy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (*ledger.AwardPolicy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("invalid policy JSON: %w", err)
	}

	if pj.ID == "" {
		return nil, fmt.Errorf("policy ID is required")
	}
	if len(pj.Fractions) == 0 {
		return nil, fmt.Errorf("policy %s has no fractions", pj.ID)
	}

	policy := &ledger.AwardPolicy{
		ID:           pj.ID,
		Name:         pj.Name,
		Fractions:    make(map[ledger.AttendanceStatus]decimal.Decimal, len(pj.Fractions)),
		DefaultHours: pj.DefaultHours,
	}
	if policy.DefaultHours <= 0 {
		policy.DefaultHours = ledger.DefaultVolunteerHours
	}

	for name, raw := range pj.Fractions {
		status := ledger.AttendanceStatus(name)
		if !markable(status) {
			return nil, fmt.Errorf("policy %s: unknown attendance status %q", pj.ID, name)
		}
		frac, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("policy %s: invalid fraction for %s: %w", pj.ID, name, err)
		}
		if frac.IsNegative() {
			return nil, fmt.Errorf("policy %s: fraction for %s must not be negative", pj.ID, name)
		}
		policy.Fractions[status] = frac
	}

	// Every markable status needs a payout rule, or awards for it would
	// silently fail at mark time.
	for _, status := range ledger.MarkableStatuses {
		if _, ok := policy.Fractions[status]; !ok {
			return nil, fmt.Errorf("policy %s: missing fraction for %s", pj.ID, status)
		}
	}

	return policy, nil
}

func markable(status ledger.AttendanceStatus) bool {
	for _, s := range ledger.MarkableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// =============================================================================
// PRESETS
// =============================================================================

// StandardAwardsJSON returns the JSON definition matching the built-in
// default policy. Useful as a template for custom configurations.
func StandardAwardsJSON(id, name string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": %q,
		"fractions": {
			"attended": "1",
			"partial": "0.5",
			"no_show": "0"
		},
		"default_hours": %d
	}`, id, name, ledger.DefaultVolunteerHours)
}
