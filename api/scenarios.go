/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates organizations, events,
	volunteers, and registrations that demonstrate specific features.

AVAILABLE SCENARIOS:

	community-day:  Active event with registered volunteers, attendance
	                ready to be marked
	audit-queue:    Awards already made, unreviewed distributions waiting
	                for admin review
	season-wrapup:  Several completed events, populated leaderboard

HOW SCENARIOS WORK:
 1. Create organizations and volunteers (upserts, reload-safe)
 2. Create events
 3. Register volunteers
 4. Optionally mark attendance through the engine, so awards flow through
    the same code path as production traffic

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "audit-queue"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenario loads are additive and tolerate reloads (duplicate
	registrations are skipped). Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - ledger/award.go: The engine scenarios award through
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/actify/points-engine/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "community-day",
		Name:        "Community Day",
		Description: "Active event with registered volunteers, attendance unmarked",
	},
	{
		ID:          "audit-queue",
		Name:        "Audit Queue",
		Description: "Awarded points waiting for admin review",
	},
	{
		ID:          "season-wrapup",
		Name:        "Season Wrap-Up",
		Description: "Several completed events and a populated leaderboard",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario populates the database with a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error

	switch req.ScenarioID {
	case "community-day":
		err = h.loadCommunityDayScenario(ctx)
	case "audit-queue":
		err = h.loadAuditQueueScenario(ctx)
	case "season-wrapup":
		err = h.loadSeasonWrapupScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"scenario": req.ScenarioID,
	})
}

// =============================================================================
// SHARED SEED DATA
// =============================================================================

func (h *Handler) seedBaseEntities(ctx context.Context) error {
	orgs := []ledger.Organization{
		{ID: "org-greenroots", Name: "GreenRoots Collective", Email: "hello@greenroots.org", Verified: true},
		{ID: "org-foodshare", Name: "FoodShare Network", Email: "team@foodshare.org", Verified: true},
		{ID: "org-newhope", Name: "New Hope Shelter", Email: "contact@newhope.org", Verified: false},
	}
	for _, org := range orgs {
		if err := h.Store.SaveOrganization(ctx, org); err != nil {
			return err
		}
	}

	volunteers := []ledger.Volunteer{
		{ID: "vol-alice", Name: "Alice Nguyen", Email: "alice@example.com"},
		{ID: "vol-bob", Name: "Bob Okafor", Email: "bob@example.com"},
		{ID: "vol-carla", Name: "Carla Reyes", Email: "carla@example.com"},
		{ID: "vol-dmitri", Name: "Dmitri Volkov", Email: "dmitri@example.com"},
	}
	for _, v := range volunteers {
		existing, err := h.Store.Volunteer(ctx, v.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Reload: keep the accrued balance.
			continue
		}
		if err := h.Store.SaveVolunteer(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) seedEvent(ctx context.Context, e ledger.Event, volunteerIDs []ledger.VolunteerID) error {
	if err := h.Store.SaveEvent(ctx, e); err != nil {
		return err
	}
	for i, vid := range volunteerIDs {
		reg := ledger.Registration{
			ID:               ledger.RegistrationID(fmt.Sprintf("reg-%s-%s", e.ID, vid)),
			VolunteerID:      vid,
			EventID:          e.ID,
			AttendanceStatus: ledger.AttendancePending,
			RegisteredAt:     time.Now().UTC().Add(time.Duration(i) * time.Minute),
		}
		err := h.Store.SaveRegistration(ctx, reg)
		if err != nil && !errors.Is(err, ledger.ErrDuplicateRegistration) {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO: COMMUNITY DAY
// =============================================================================

// loadCommunityDayScenario seeds an active event with registered volunteers
// and no attendance marked yet.
func (h *Handler) loadCommunityDayScenario(ctx context.Context) error {
	if err := h.seedBaseEntities(ctx); err != nil {
		return err
	}

	event := ledger.Event{
		ID:            "evt-park-cleanup",
		OrgID:         "org-greenroots",
		Title:         "Riverside Park Cleanup",
		Date:          time.Now().UTC().AddDate(0, 0, -1),
		DurationHours: 4,
		Capacity:      20,
		PointsReward:  100,
		Status:        ledger.EventActive,
	}
	return h.seedEvent(ctx, event,
		[]ledger.VolunteerID{"vol-alice", "vol-bob", "vol-carla"})
}

// =============================================================================
// SCENARIO: AUDIT QUEUE
// =============================================================================

// loadAuditQueueScenario seeds an event and marks its attendance through the
// engine, leaving unreviewed distributions for the admin surface.
func (h *Handler) loadAuditQueueScenario(ctx context.Context) error {
	if err := h.seedBaseEntities(ctx); err != nil {
		return err
	}

	event := ledger.Event{
		ID:            "evt-food-drive",
		OrgID:         "org-foodshare",
		Title:         "Winter Food Drive",
		Date:          time.Now().UTC().AddDate(0, 0, -3),
		DurationHours: 6,
		Capacity:      15,
		PointsReward:  151, // odd reward: partial attendance floors to 75
		Status:        ledger.EventActive,
	}
	err := h.seedEvent(ctx, event,
		[]ledger.VolunteerID{"vol-alice", "vol-bob", "vol-dmitri"})
	if err != nil {
		return err
	}

	// Awards flow through the engine so the data matches production shape.
	// On reload the entries warn as already awarded, which is fine.
	_, err = h.Engine.MarkAttendance(ctx, event.ID, event.OrgID, []ledger.AttendanceEntry{
		{VolunteerID: "vol-alice", Status: ledger.AttendanceAttended},
		{VolunteerID: "vol-bob", Status: ledger.AttendancePartial},
		{VolunteerID: "vol-dmitri", Status: ledger.AttendanceNoShow},
	})
	return err
}

// =============================================================================
// SCENARIO: SEASON WRAP-UP
// =============================================================================

// loadSeasonWrapupScenario seeds several fully marked events so the
// leaderboard and per-organization aggregates have data.
func (h *Handler) loadSeasonWrapupScenario(ctx context.Context) error {
	if err := h.loadAuditQueueScenario(ctx); err != nil {
		return err
	}

	events := []struct {
		event  ledger.Event
		marks  []ledger.AttendanceEntry
		regIDs []ledger.VolunteerID
	}{
		{
			event: ledger.Event{
				ID:           "evt-shelter-meals",
				OrgID:        "org-newhope",
				Title:        "Shelter Meal Service",
				Date:         time.Now().UTC().AddDate(0, -1, 0),
				PointsReward: 80, // no duration: attended credits the default hours
				Status:       ledger.EventActive,
			},
			regIDs: []ledger.VolunteerID{"vol-alice", "vol-carla"},
			marks: []ledger.AttendanceEntry{
				{VolunteerID: "vol-alice", Status: ledger.AttendanceAttended},
				{VolunteerID: "vol-carla", Status: ledger.AttendanceAttended},
			},
		},
		{
			event: ledger.Event{
				ID:            "evt-tree-planting",
				OrgID:         "org-greenroots",
				Title:         "Urban Tree Planting",
				Date:          time.Now().UTC().AddDate(0, -2, 0),
				DurationHours: 5,
				Capacity:      30,
				PointsReward:  120,
				Status:        ledger.EventActive,
			},
			regIDs: []ledger.VolunteerID{"vol-bob", "vol-carla", "vol-dmitri"},
			marks: []ledger.AttendanceEntry{
				{VolunteerID: "vol-bob", Status: ledger.AttendanceAttended},
				{VolunteerID: "vol-carla", Status: ledger.AttendancePartial},
				{VolunteerID: "vol-dmitri", Status: ledger.AttendanceAttended},
			},
		},
	}

	for _, s := range events {
		if err := h.seedEvent(ctx, s.event, s.regIDs); err != nil {
			return err
		}
		if _, err := h.Engine.MarkAttendance(ctx, s.event.ID, s.event.OrgID, s.marks); err != nil {
			return err
		}
	}
	return nil
}
