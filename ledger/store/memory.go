// Package store provides an in-memory ledger.Store implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/actify/points-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	orgs       map[ledger.OrgID]ledger.Organization
	volunteers map[ledger.VolunteerID]ledger.Volunteer
	events     map[ledger.EventID]ledger.Event

	registrations map[ledger.RegistrationID]ledger.Registration
	byPair        map[pair]ledger.RegistrationID
}

type pair struct {
	VolunteerID ledger.VolunteerID
	EventID     ledger.EventID
}

func NewMemory() *Memory {
	return &Memory{
		orgs:          make(map[ledger.OrgID]ledger.Organization),
		volunteers:    make(map[ledger.VolunteerID]ledger.Volunteer),
		events:        make(map[ledger.EventID]ledger.Event),
		registrations: make(map[ledger.RegistrationID]ledger.Registration),
		byPair:        make(map[pair]ledger.RegistrationID),
	}
}

// =============================================================================
// ORGANIZATIONS
// =============================================================================

func (m *Memory) Organization(_ context.Context, id ledger.OrgID) (*ledger.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if org, ok := m.orgs[id]; ok {
		return &org, nil
	}
	return nil, nil
}

func (m *Memory) Organizations(_ context.Context) ([]ledger.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Organization, 0, len(m.orgs))
	for _, org := range m.orgs {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveOrganization(_ context.Context, org ledger.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs[org.ID] = org
	return nil
}

// =============================================================================
// VOLUNTEERS
// =============================================================================

func (m *Memory) Volunteer(_ context.Context, id ledger.VolunteerID) (*ledger.Volunteer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.volunteers[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (m *Memory) Volunteers(_ context.Context) ([]ledger.Volunteer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Volunteer, 0, len(m.volunteers))
	for _, v := range m.volunteers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveVolunteer(_ context.Context, v ledger.Volunteer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volunteers[v.ID] = v
	return nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (m *Memory) Event(_ context.Context, id ledger.EventID) (*ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) Events(_ context.Context) ([]ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) EventsByOrg(_ context.Context, orgID ledger.OrgID) ([]ledger.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Event
	for _, e := range m.events {
		if e.OrgID == orgID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveEvent(_ context.Context, e ledger.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	return nil
}

func (m *Memory) SetEventStatus(_ context.Context, id ledger.EventID, status ledger.EventStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return ledger.ErrEventNotFound
	}
	e.Status = status
	m.events[id] = e
	return nil
}

// =============================================================================
// REGISTRATIONS
// =============================================================================

func (m *Memory) Registration(_ context.Context, volunteerID ledger.VolunteerID, eventID ledger.EventID) (*ledger.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byPair[pair{volunteerID, eventID}]; ok {
		r := m.registrations[id]
		return &r, nil
	}
	return nil, nil
}

func (m *Memory) RegistrationByID(_ context.Context, id ledger.RegistrationID) (*ledger.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.registrations[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *Memory) RegistrationsByEvent(_ context.Context, eventID ledger.EventID) ([]ledger.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Registration
	for _, r := range m.registrations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) RegistrationsByVolunteer(_ context.Context, volunteerID ledger.VolunteerID) ([]ledger.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Registration
	for _, r := range m.registrations {
		if r.VolunteerID == volunteerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveRegistration creates or replaces a registration. The (volunteer, event)
// pair stays unique: a second registration for the same pair is rejected.
func (m *Memory) SaveRegistration(_ context.Context, r ledger.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := pair{r.VolunteerID, r.EventID}
	if existing, ok := m.byPair[k]; ok && existing != r.ID {
		return ledger.ErrDuplicateRegistration
	}
	m.registrations[r.ID] = r
	m.byPair[k] = r.ID
	return nil
}

// =============================================================================
// DISTRIBUTIONS (read projection)
// =============================================================================

func (m *Memory) Distributions(_ context.Context, filter ledger.DistributionFilter) ([]ledger.Distribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.Distribution
	for _, r := range m.registrations {
		if r.PointsAwarded <= 0 {
			continue
		}
		switch filter.Review {
		case ledger.FilterUnreviewed:
			if r.AdminReviewed {
				continue
			}
		case ledger.FilterReviewed:
			if !r.AdminReviewed {
				continue
			}
		}
		if filter.Org != nil && (r.AwardedByOrg == nil || *r.AwardedByOrg != *filter.Org) {
			continue
		}
		out = append(out, m.toDistribution(r))
	}

	// Newest award first.
	sort.Slice(out, func(i, j int) bool { return out[i].PointsAwardedAt > out[j].PointsAwardedAt })
	return out, nil
}

func (m *Memory) toDistribution(r ledger.Registration) ledger.Distribution {
	d := ledger.Distribution{
		RegistrationID:   r.ID,
		VolunteerID:      r.VolunteerID,
		EventID:          r.EventID,
		OrgID:            r.AwardedByOrg,
		OrgName:          "Unknown",
		AttendanceStatus: r.AttendanceStatus,
		PointsAwarded:    r.PointsAwarded,
		AdminReviewed:    r.AdminReviewed,
		AdminNotes:       r.AdminNotes,
	}
	if v, ok := m.volunteers[r.VolunteerID]; ok {
		d.VolunteerName = v.Name
	}
	if e, ok := m.events[r.EventID]; ok {
		d.EventTitle = e.Title
		d.EventDate = e.Date.Format("2006-01-02")
		d.ExpectedPoints = e.PointsReward
	}
	if r.AwardedByOrg != nil {
		if org, ok := m.orgs[*r.AwardedByOrg]; ok {
			d.OrgName = org.Name
		}
	}
	if r.PointsAwardedAt != nil {
		d.PointsAwardedAt = r.PointsAwardedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if r.AdminReviewedAt != nil {
		d.AdminReviewedAt = r.AdminReviewedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return d
}

// =============================================================================
// ATOMIC PAIRED WRITES
// =============================================================================

// ApplyAward persists an awarded registration and its balance delta as one
// unit. The unawarded guard is re-checked under the write lock, so two
// concurrent awards for the same registration cannot both credit.
func (m *Memory) ApplyAward(_ context.Context, r ledger.Registration, delta ledger.BalanceDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.registrations[r.ID]
	if !ok {
		return ledger.ErrRegistrationNotFound
	}
	if current.PointsAwarded != 0 {
		return ledger.ErrAlreadyAwarded
	}

	v, ok := m.volunteers[delta.VolunteerID]
	if !ok {
		return ledger.ErrVolunteerNotFound
	}

	m.registrations[r.ID] = r
	m.applyDeltaLocked(v, delta)
	return nil
}

// ApplyReview persists a reviewed registration and its balance delta as one
// unit.
func (m *Memory) ApplyReview(_ context.Context, r ledger.Registration, delta ledger.BalanceDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.registrations[r.ID]; !ok {
		return ledger.ErrRegistrationNotFound
	}
	v, ok := m.volunteers[delta.VolunteerID]
	if !ok {
		return ledger.ErrVolunteerNotFound
	}

	m.registrations[r.ID] = r
	m.applyDeltaLocked(v, delta)
	return nil
}

func (m *Memory) applyDeltaLocked(v ledger.Volunteer, delta ledger.BalanceDelta) {
	v.VolunteerPoints += delta.Points
	v.EventsCompleted += delta.EventsCompleted
	v.VolunteerHours += delta.Hours
	if delta.FloorAtZero {
		if v.VolunteerPoints < 0 {
			v.VolunteerPoints = 0
		}
		if v.EventsCompleted < 0 {
			v.EventsCompleted = 0
		}
	}
	m.volunteers[v.ID] = v
}

// Compile-time check that Memory implements ledger.Store.
var _ ledger.Store = (*Memory)(nil)
