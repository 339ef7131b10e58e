package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actify/points-engine/factory"
	"github.com/actify/points-engine/ledger"
)

func TestParsePolicy_StandardPreset(t *testing.T) {
	f := factory.NewPolicyFactory()

	policy, err := f.ParsePolicy(factory.StandardAwardsJSON("standard", "Standard"))
	require.NoError(t, err)

	assert.Equal(t, "standard", policy.ID)
	assert.Equal(t, 3, policy.DefaultHours)

	// Matches the built-in scheme.
	full, err := policy.PointsFor(ledger.AttendanceAttended, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, full)

	half, err := policy.PointsFor(ledger.AttendancePartial, 101)
	require.NoError(t, err)
	assert.Equal(t, 50, half, "odd rewards floor")

	nothing, err := policy.PointsFor(ledger.AttendanceNoShow, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, nothing)
}

func TestParsePolicy_CustomFractions(t *testing.T) {
	f := factory.NewPolicyFactory()

	policy, err := f.ParsePolicy(`{
		"id": "generous",
		"name": "Generous Awards",
		"fractions": {"attended": "1", "partial": "0.75", "no_show": "0.1"},
		"default_hours": 2
	}`)
	require.NoError(t, err)
	assert.Equal(t, 2, policy.DefaultHours)

	// 0.75 of 101 floors to 75, exactly.
	pts, err := policy.PointsFor(ledger.AttendancePartial, 101)
	require.NoError(t, err)
	assert.Equal(t, 75, pts)

	pts, err = policy.PointsFor(ledger.AttendanceNoShow, 99)
	require.NoError(t, err)
	assert.Equal(t, 9, pts)
}

func TestParsePolicy_Invalid(t *testing.T) {
	f := factory.NewPolicyFactory()

	cases := []struct {
		name string
		json string
	}{
		{"malformed JSON", `{`},
		{"missing id", `{"fractions": {"attended": "1", "partial": "0.5", "no_show": "0"}}`},
		{"no fractions", `{"id": "p"}`},
		{"unknown status", `{"id": "p", "fractions": {"attended": "1", "partial": "0.5", "no_show": "0", "levitated": "2"}}`},
		{"bad fraction", `{"id": "p", "fractions": {"attended": "one", "partial": "0.5", "no_show": "0"}}`},
		{"negative fraction", `{"id": "p", "fractions": {"attended": "-1", "partial": "0.5", "no_show": "0"}}`},
		{"missing markable status", `{"id": "p", "fractions": {"attended": "1"}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.ParsePolicy(c.json)
			assert.Error(t, err)
		})
	}
}

func TestParsePolicy_DefaultHoursFallback(t *testing.T) {
	f := factory.NewPolicyFactory()

	policy, err := f.ParsePolicy(`{
		"id": "p",
		"fractions": {"attended": "1", "partial": "0.5", "no_show": "0"}
	}`)
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultVolunteerHours, policy.DefaultHours)
}
