/*
handlers.go - HTTP API handlers for the points ledger

PURPOSE:
  Exposes the points engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Organization (X-Org-ID header):
    POST   /api/org/events                          Create event
    GET    /api/org/events                          List this org's events
    POST   /api/org/events/{eventID}/attendance     Submit attendance batch
    GET    /api/org/events/{eventID}/attendance     Attendance summary
    GET    /api/org/points-history                  This org's distributions

  Admin (X-Admin-ID header):
    GET    /api/admin/points/distributions          List distributions (?filter=)
    PUT    /api/admin/points/distributions/{registrationID}/review
    GET    /api/admin/points/by-organization        Per-org aggregates
    GET    /api/admin/stats                         Dashboard stats
    GET    /api/admin/points/integrity              Balance consistency (?volunteerId=)
    PUT    /api/admin/events/{eventID}/status       Approve/reject event

  Volunteer (X-Volunteer-ID header):
    POST   /api/events/{eventID}/register           Register for event
    GET    /api/volunteers/{volunteerID}/balance    Balance aggregates
    GET    /api/leaderboard                         Top volunteers by points

  Scenarios:
    GET    /api/scenarios                           List demo scenarios
    POST   /api/scenarios/load                      Load a demo scenario

IDENTITY:
  Authentication happens upstream; the fronting layer injects the caller
  identity as X-Org-ID / X-Admin-ID / X-Volunteer-ID headers. A missing
  identity header is a 401. Ownership checks beyond that live in the
  ledger engine, not here.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing identity header
  - 403: Organization does not own the event
  - 404: Entity not found
  - 409: Duplicate registration
  - 500: Internal errors, ledger drift

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/actify/points-engine/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  ledger.Store
	Engine *ledger.Engine

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler over the given store, using the default
// award policy.
func NewHandler(store ledger.Store) *Handler {
	return &Handler{
		Store:  store,
		Engine: ledger.NewEngine(store, nil),
	}
}

// =============================================================================
// IDENTITY
// =============================================================================

// orgIdentity reads the caller's organization identity from the request.
// Writes a 401 and returns false when the header is absent.
func orgIdentity(w http.ResponseWriter, r *http.Request) (ledger.OrgID, bool) {
	id := r.Header.Get("X-Org-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Org-ID header", nil)
		return "", false
	}
	return ledger.OrgID(id), true
}

func adminIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-Admin-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Admin-ID header", nil)
		return "", false
	}
	return id, true
}

func volunteerIdentity(w http.ResponseWriter, r *http.Request) (ledger.VolunteerID, bool) {
	id := r.Header.Get("X-Volunteer-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Volunteer-ID header", nil)
		return "", false
	}
	return ledger.VolunteerID(id), true
}

// =============================================================================
// ORGANIZATION HANDLERS
// =============================================================================

// SubmitAttendance records an attendance batch for an event and awards the
// resulting points.
func (h *Handler) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIdentity(w, r)
	if !ok {
		return
	}
	eventID := ledger.EventID(chi.URLParam(r, "eventID"))

	var req SubmitAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Attendance) == 0 {
		writeError(w, http.StatusBadRequest, "Attendance list is empty", nil)
		return
	}

	entries := make([]ledger.AttendanceEntry, len(req.Attendance))
	for i, e := range req.Attendance {
		entries[i] = ledger.AttendanceEntry{
			VolunteerID: ledger.VolunteerID(e.VolunteerID),
			Status:      ledger.AttendanceStatus(e.Status),
		}
	}

	result, err := h.Engine.MarkAttendance(r.Context(), eventID, orgID, entries)
	if err != nil {
		writeLedgerError(w, "Failed to submit attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, AttendanceResultDTO{
		Success:           true,
		VolunteersMarked:  result.VolunteersMarked,
		PointsDistributed: result.PointsDistributed,
		EventCompleted:    result.EventCompleted,
		Warnings:          result.Warnings,
	})
}

// GetAttendanceSummary returns the bookkeeping state for one event.
func (h *Handler) GetAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIdentity(w, r)
	if !ok {
		return
	}
	eventID := ledger.EventID(chi.URLParam(r, "eventID"))

	summary, err := h.Engine.Summary(r.Context(), eventID, orgID)
	if err != nil {
		writeLedgerError(w, "Failed to get attendance summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetOrgPointsHistory returns the awards this organization made.
func (h *Handler) GetOrgPointsHistory(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIdentity(w, r)
	if !ok {
		return
	}

	dists, err := h.Engine.OrgDistributions(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get points history", err)
		return
	}
	writeJSON(w, http.StatusOK, toDistributionDTOs(dists))
}

// CreateEvent creates an event for the calling organization. New events
// start pending until an admin approves them.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIdentity(w, r)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Event title is required", nil)
		return
	}
	if req.PointsReward < 0 {
		writeError(w, http.StatusBadRequest, "pointsReward must not be negative", nil)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	event := ledger.Event{
		ID:            ledger.EventID(uuid.NewString()),
		OrgID:         orgID,
		Title:         req.Title,
		Date:          date,
		DurationHours: req.DurationHours,
		Capacity:      req.Capacity,
		PointsReward:  req.PointsReward,
		Status:        ledger.EventPending,
	}
	if err := h.Store.SaveEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// ListOrgEvents returns the calling organization's events.
func (h *Handler) ListOrgEvents(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgIdentity(w, r)
	if !ok {
		return
	}

	events, err := h.Store.EventsByOrg(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = toEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListDistributions returns award rows across the system, newest first.
// ?filter=unreviewed|reviewed narrows by review state.
func (h *Handler) ListDistributions(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	filter := ledger.ReviewFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = ledger.FilterAll
	}

	dists, err := h.Engine.Distributions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list distributions", err)
		return
	}
	writeJSON(w, http.StatusOK, toDistributionDTOs(dists))
}

// ReviewDistribution applies an administrator correction to one award.
func (h *Handler) ReviewDistribution(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	registrationID := ledger.RegistrationID(chi.URLParam(r, "registrationID"))

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Engine.Review(r.Context(), ledger.ReviewInput{
		RegistrationID: registrationID,
		Action:         ledger.ReviewAction(req.Action),
		Notes:          req.Notes,
		NewPoints:      req.NewPoints,
	})
	if err != nil {
		writeLedgerError(w, "Failed to review distribution", err)
		return
	}

	writeJSON(w, http.StatusOK, ReviewResultDTO{
		Success:        true,
		RegistrationID: string(result.RegistrationID),
		Action:         string(result.Action),
		PointsBefore:   result.PointsBefore,
		PointsAfter:    result.PointsAfter,
	})
}

// PointsByOrganization returns per-organization award aggregates.
func (h *Handler) PointsByOrganization(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	summaries, err := h.Engine.PointsByOrganization(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate points", err)
		return
	}

	dtos := make([]OrgPointsSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = OrgPointsSummaryDTO{
			OrgID:              string(s.OrgID),
			OrgName:            s.OrgName,
			Verified:           s.Verified,
			TotalDistributions: s.TotalDistributions,
			TotalPointsAwarded: s.TotalPointsAwarded,
			UnreviewedCount:    s.UnreviewedCount,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStats returns system-wide event and distribution counts.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	stats, err := h.Engine.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsDTO{
		TotalEvents:             stats.TotalEvents,
		PendingEvents:           stats.PendingEvents,
		ActiveEvents:            stats.ActiveEvents,
		RejectedEvents:          stats.RejectedEvents,
		CompletedEvents:         stats.CompletedEvents,
		TotalDistributions:      stats.TotalDistributions,
		TotalPointsDistributed:  stats.TotalPointsDistributed,
		UnreviewedDistributions: stats.UnreviewedDistributions,
	})
}

// CheckIntegrity reconciles volunteer balances against the ledger.
// ?volunteerId= checks one volunteer; otherwise every volunteer is checked.
// Any drift is a 500: it means write atomicity was violated somewhere.
func (h *Handler) CheckIntegrity(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	ctx := r.Context()

	var ids []ledger.VolunteerID
	if q := r.URL.Query().Get("volunteerId"); q != "" {
		ids = append(ids, ledger.VolunteerID(q))
	} else {
		volunteers, err := h.Store.Volunteers(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list volunteers", err)
			return
		}
		for _, v := range volunteers {
			ids = append(ids, v.ID)
		}
	}

	checks := make([]BalanceCheckDTO, 0, len(ids))
	drifted := false
	for _, id := range ids {
		check, err := h.Engine.VerifyBalance(ctx, id)
		if err != nil && !errors.Is(err, ledger.ErrLedgerDrift) {
			writeLedgerError(w, "Failed to verify balance", err)
			return
		}
		if err != nil {
			drifted = true
		}
		checks = append(checks, BalanceCheckDTO{
			VolunteerID: string(check.VolunteerID),
			LedgerTotal: check.LedgerTotal,
			Balance:     check.Balance,
			Consistent:  check.Consistent,
		})
	}

	status := http.StatusOK
	if drifted {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]any{
		"consistent": !drifted,
		"checks":     checks,
	})
}

// SetEventStatus moves an event through the admin approval workflow.
func (h *Handler) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	eventID := ledger.EventID(chi.URLParam(r, "eventID"))

	var req SetEventStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	status := ledger.EventStatus(req.Status)
	if status != ledger.EventActive && status != ledger.EventRejected {
		writeError(w, http.StatusBadRequest, "Status must be active or rejected", nil)
		return
	}

	if err := h.Store.SetEventStatus(r.Context(), eventID, status); err != nil {
		writeLedgerError(w, "Failed to set event status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"eventId": string(eventID),
		"status":  string(status),
	})
}

// =============================================================================
// VOLUNTEER HANDLERS
// =============================================================================

// RegisterForEvent creates a registration for the calling volunteer.
func (h *Handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	volunteerID, ok := volunteerIdentity(w, r)
	if !ok {
		return
	}
	eventID := ledger.EventID(chi.URLParam(r, "eventID"))
	ctx := r.Context()

	event, err := h.Store.Event(ctx, eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get event", err)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if event.Status != ledger.EventActive {
		writeError(w, http.StatusBadRequest, "Event is not open for registration", nil)
		return
	}

	reg := ledger.Registration{
		ID:               ledger.RegistrationID(uuid.NewString()),
		VolunteerID:      volunteerID,
		EventID:          eventID,
		AttendanceStatus: ledger.AttendancePending,
		RegisteredAt:     time.Now().UTC(),
	}
	if err := h.Store.SaveRegistration(ctx, reg); err != nil {
		if errors.Is(err, ledger.ErrDuplicateRegistration) {
			writeError(w, http.StatusConflict, "Already registered for this event", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to register", err)
		return
	}

	writeJSON(w, http.StatusCreated, RegistrationDTO{
		ID:               string(reg.ID),
		VolunteerID:      string(reg.VolunteerID),
		EventID:          string(reg.EventID),
		AttendanceStatus: string(reg.AttendanceStatus),
		RegisteredAt:     reg.RegisteredAt.Format(time.RFC3339),
	})
}

// GetVolunteerBalance returns one volunteer's balance aggregates.
func (h *Handler) GetVolunteerBalance(w http.ResponseWriter, r *http.Request) {
	id := ledger.VolunteerID(chi.URLParam(r, "volunteerID"))

	v, err := h.Store.Volunteer(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get volunteer", err)
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "Volunteer not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, VolunteerBalanceDTO{
		VolunteerID:     string(v.ID),
		Name:            v.Name,
		VolunteerPoints: v.VolunteerPoints,
		EventsCompleted: v.EventsCompleted,
		VolunteerHours:  v.VolunteerHours,
	})
}

// GetLeaderboard returns the top volunteers by point balance.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.Store.Volunteers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list volunteers", err)
		return
	}

	sort.SliceStable(volunteers, func(i, j int) bool {
		return volunteers[i].VolunteerPoints > volunteers[j].VolunteerPoints
	})
	if len(volunteers) > 10 {
		volunteers = volunteers[:10]
	}

	entries := make([]LeaderboardEntryDTO, len(volunteers))
	for i, v := range volunteers {
		entries[i] = LeaderboardEntryDTO{
			Rank:            i + 1,
			VolunteerID:     string(v.ID),
			Name:            v.Name,
			VolunteerPoints: v.VolunteerPoints,
			EventsCompleted: v.EventsCompleted,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeLedgerError maps a ledger error onto an HTTP status.
func writeLedgerError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, ledger.ErrNotEventOwner):
		writeError(w, http.StatusForbidden, message, err)
	case errors.Is(err, ledger.ErrDuplicateRegistration):
		writeError(w, http.StatusConflict, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
