/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Attendance:
    SubmitAttendanceRequest, AttendanceEntryDTO, AttendanceResultDTO,
    AttendanceSummaryDTO

  Review:
    ReviewRequest, ReviewResultDTO

  Distributions:
    DistributionDTO, OrgPointsSummaryDTO

  Entities:
    EventDTO, CreateEventRequest, VolunteerBalanceDTO, LeaderboardEntryDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/: The domain types these project
*/
package api

import (
	"time"

	"github.com/actify/points-engine/ledger"
)

// =============================================================================
// ATTENDANCE TYPES
// =============================================================================

// AttendanceEntryDTO is one (volunteer, status) pair in a batch submission.
type AttendanceEntryDTO struct {
	VolunteerID string `json:"volunteerId"`
	Status      string `json:"status"`
}

// SubmitAttendanceRequest is the batch attendance submission body.
type SubmitAttendanceRequest struct {
	Attendance []AttendanceEntryDTO `json:"attendance"`
}

// AttendanceResultDTO reports the outcome of a batch submission.
type AttendanceResultDTO struct {
	Success           bool     `json:"success"`
	VolunteersMarked  int      `json:"volunteersMarked"`
	PointsDistributed int      `json:"pointsDistributed"`
	EventCompleted    bool     `json:"eventCompleted"`
	Warnings          []string `json:"warnings,omitempty"`
}

// AttendanceSummaryDTO is the per-event bookkeeping view.
type AttendanceSummaryDTO struct {
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	EventDate  string `json:"eventDate"`

	TotalRegistered int `json:"totalRegistered"`
	Attended        int `json:"attended"`
	Partial         int `json:"partial"`
	NoShow          int `json:"noShow"`
	Pending         int `json:"pending"`

	TotalPointsDistributed int  `json:"totalPointsDistributed"`
	AttendanceComplete     bool `json:"attendanceComplete"`
}

// =============================================================================
// REVIEW TYPES
// =============================================================================

// ReviewRequest is an administrator correction to one distribution.
type ReviewRequest struct {
	Action    string `json:"action"` // approve, adjust, revoke
	Notes     string `json:"notes,omitempty"`
	NewPoints *int   `json:"newPoints,omitempty"` // required for adjust
}

// ReviewResultDTO reports the registration's points after the action.
type ReviewResultDTO struct {
	Success        bool   `json:"success"`
	RegistrationID string `json:"registrationId"`
	Action         string `json:"action"`
	PointsBefore   int    `json:"pointsBefore"`
	PointsAfter    int    `json:"pointsAfter"`
}

// =============================================================================
// DISTRIBUTION TYPES
// =============================================================================

// DistributionDTO is one award row in audit listings.
type DistributionDTO struct {
	RegistrationID string `json:"registrationId"`
	VolunteerID    string `json:"volunteerId"`
	VolunteerName  string `json:"volunteerName"`
	EventID        string `json:"eventId"`
	EventTitle     string `json:"eventTitle"`
	EventDate      string `json:"eventDate"`
	OrgID          string `json:"orgId,omitempty"`
	OrgName        string `json:"orgName"`

	AttendanceStatus string `json:"attendanceStatus"`
	PointsAwarded    int    `json:"pointsAwarded"`
	ExpectedPoints   int    `json:"expectedPoints"`
	PointsAwardedAt  string `json:"pointsAwardedAt,omitempty"`

	AdminReviewed   bool   `json:"adminReviewed"`
	AdminReviewedAt string `json:"adminReviewedAt,omitempty"`
	AdminNotes      string `json:"adminNotes,omitempty"`
}

// OrgPointsSummaryDTO aggregates one organization's distributions.
type OrgPointsSummaryDTO struct {
	OrgID              string `json:"orgId"`
	OrgName            string `json:"orgName"`
	Verified           bool   `json:"verified"`
	TotalDistributions int    `json:"totalDistributions"`
	TotalPointsAwarded int    `json:"totalPointsAwarded"`
	UnreviewedCount    int    `json:"unreviewedCount"`
}

// StatsDTO is the admin dashboard aggregate.
type StatsDTO struct {
	TotalEvents     int `json:"totalEvents"`
	PendingEvents   int `json:"pendingEvents"`
	ActiveEvents    int `json:"activeEvents"`
	RejectedEvents  int `json:"rejectedEvents"`
	CompletedEvents int `json:"completedEvents"`

	TotalDistributions      int `json:"totalDistributions"`
	TotalPointsDistributed  int `json:"totalPointsDistributed"`
	UnreviewedDistributions int `json:"unreviewedDistributions"`
}

// BalanceCheckDTO is the ledger consistency view for one volunteer.
type BalanceCheckDTO struct {
	VolunteerID string `json:"volunteerId"`
	LedgerTotal int    `json:"ledgerTotal"`
	Balance     int    `json:"balance"`
	Consistent  bool   `json:"consistent"`
}

// =============================================================================
// ENTITY TYPES
// =============================================================================

// EventDTO represents an event in API responses.
type EventDTO struct {
	ID            string `json:"id"`
	OrgID         string `json:"orgId"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	DurationHours int    `json:"durationHours,omitempty"`
	Capacity      int    `json:"capacity,omitempty"`
	PointsReward  int    `json:"pointsReward"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// CreateEventRequest is the request to create an event.
type CreateEventRequest struct {
	Title         string `json:"title"`
	Date          string `json:"date"` // YYYY-MM-DD
	DurationHours int    `json:"durationHours,omitempty"`
	Capacity      int    `json:"capacity,omitempty"`
	PointsReward  int    `json:"pointsReward"`
}

// SetEventStatusRequest is the admin approval body.
type SetEventStatusRequest struct {
	Status string `json:"status"` // active, rejected
}

// RegistrationDTO represents a registration in API responses.
type RegistrationDTO struct {
	ID                  string `json:"id"`
	VolunteerID         string `json:"volunteerId"`
	EventID             string `json:"eventId"`
	AttendanceStatus    string `json:"attendanceStatus"`
	AttendanceConfirmed bool   `json:"attendanceConfirmed"`
	PointsAwarded       int    `json:"pointsAwarded"`
	RegisteredAt        string `json:"registeredAt"`
}

// VolunteerBalanceDTO is a volunteer's balance aggregate view.
type VolunteerBalanceDTO struct {
	VolunteerID     string `json:"volunteerId"`
	Name            string `json:"name"`
	VolunteerPoints int    `json:"volunteerPoints"`
	EventsCompleted int    `json:"eventsCompleted"`
	VolunteerHours  int    `json:"volunteerHours"`
}

// LeaderboardEntryDTO is one row of the points leaderboard.
type LeaderboardEntryDTO struct {
	Rank            int    `json:"rank"`
	VolunteerID     string `json:"volunteerId"`
	Name            string `json:"name"`
	VolunteerPoints int    `json:"volunteerPoints"`
	EventsCompleted int    `json:"eventsCompleted"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEventDTO(e ledger.Event) EventDTO {
	return EventDTO{
		ID:            string(e.ID),
		OrgID:         string(e.OrgID),
		Title:         e.Title,
		Date:          e.Date.Format("2006-01-02"),
		DurationHours: e.DurationHours,
		Capacity:      e.Capacity,
		PointsReward:  e.PointsReward,
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func toDistributionDTO(d ledger.Distribution) DistributionDTO {
	dto := DistributionDTO{
		RegistrationID:   string(d.RegistrationID),
		VolunteerID:      string(d.VolunteerID),
		VolunteerName:    d.VolunteerName,
		EventID:          string(d.EventID),
		EventTitle:       d.EventTitle,
		EventDate:        d.EventDate,
		OrgName:          d.OrgName,
		AttendanceStatus: string(d.AttendanceStatus),
		PointsAwarded:    d.PointsAwarded,
		ExpectedPoints:   d.ExpectedPoints,
		PointsAwardedAt:  d.PointsAwardedAt,
		AdminReviewed:    d.AdminReviewed,
		AdminReviewedAt:  d.AdminReviewedAt,
		AdminNotes:       d.AdminNotes,
	}
	if d.OrgID != nil {
		dto.OrgID = string(*d.OrgID)
	}
	return dto
}

func toDistributionDTOs(dists []ledger.Distribution) []DistributionDTO {
	dtos := make([]DistributionDTO, len(dists))
	for i, d := range dists {
		dtos[i] = toDistributionDTO(d)
	}
	return dtos
}

func toSummaryDTO(s *ledger.AttendanceSummary) AttendanceSummaryDTO {
	return AttendanceSummaryDTO{
		EventID:                string(s.EventID),
		EventTitle:             s.EventTitle,
		EventDate:              s.EventDate,
		TotalRegistered:        s.TotalRegistered,
		Attended:               s.Attended,
		Partial:                s.Partial,
		NoShow:                 s.NoShow,
		Pending:                s.Pending,
		TotalPointsDistributed: s.TotalPointsDistributed,
		AttendanceComplete:     s.AttendanceComplete,
	}
}
