/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Implements the persistence layer for the points ledger using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  organizations:       Event hosts (attribution for awards)
  volunteers:          Balance rows (points, events completed, hours)
  events:              Activities with reward and approval status
  event_registrations: The ledger - one row per (volunteer, event) pair

ATOMICITY:
  ApplyAward and ApplyReview write the registration and the paired balance
  delta inside one SQL transaction. The award path uses a guarded UPDATE
  (... WHERE points_awarded = 0) and inspects the affected row count, so
  the idempotency check and the write are serializable: two concurrent
  submissions for the same registration cannot both credit points.

BALANCE UPDATES:
  Balance mutations are relative (volunteer_points = volunteer_points + ?),
  never read-then-write from the application. Concurrent awards and
  revokes for the same volunteer on different events both land.

UNIQUENESS:
  idx_unique_registration enforces one registration per (volunteer, event).
  Violations map onto ledger.ErrDuplicateRegistration.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety alongside the SQL transactions. In
  production with PostgreSQL, row-level locks handle this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and a single writer at a time is enforced.

USAGE:
  store, err := sqlite.New("./data/actify.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := ledger.NewEngine(store, nil)

SEE ALSO:
  - ledger/store.go: Interface definition and contracts
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/actify/points-engine/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS volunteers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		volunteer_points INTEGER NOT NULL DEFAULT 0,
		events_completed INTEGER NOT NULL DEFAULT 0,
		volunteer_hours INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		title TEXT NOT NULL,
		event_date TEXT NOT NULL,
		duration_hours INTEGER NOT NULL DEFAULT 0,
		capacity INTEGER NOT NULL DEFAULT 0,
		points_reward INTEGER NOT NULL DEFAULT 0 CHECK (points_reward >= 0),
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_org ON events(org_id);
	CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);

	-- The ledger. One row per (volunteer, event); never deleted once an
	-- award exists, only transitioned.
	CREATE TABLE IF NOT EXISTS event_registrations (
		id TEXT PRIMARY KEY,
		volunteer_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		attendance_status TEXT NOT NULL DEFAULT 'pending',
		attendance_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		points_awarded INTEGER NOT NULL DEFAULT 0 CHECK (points_awarded >= 0),
		points_awarded_at TEXT,
		awarded_by_org_id TEXT,
		admin_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
		admin_reviewed_at TEXT,
		admin_notes TEXT,
		registered_at TEXT NOT NULL
	);

	-- CRITICAL: one registration per (volunteer, event)
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_registration
		ON event_registrations(volunteer_id, event_id);

	CREATE INDEX IF NOT EXISTS idx_registrations_event
		ON event_registrations(event_id);
	CREATE INDEX IF NOT EXISTS idx_registrations_volunteer
		ON event_registrations(volunteer_id);

	-- Distribution listings (hot path for admin audit views)
	CREATE INDEX IF NOT EXISTS idx_registrations_awarded
		ON event_registrations(points_awarded_at DESC)
		WHERE points_awarded > 0;
	CREATE INDEX IF NOT EXISTS idx_registrations_awarded_org
		ON event_registrations(awarded_by_org_id)
		WHERE points_awarded > 0;
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ORGANIZATIONS
// =============================================================================

func (s *Store) Organization(ctx context.Context, id ledger.OrgID) (*ledger.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(email, ''), verified, created_at FROM organizations WHERE id = ?`, id)

	var org ledger.Organization
	var createdAt string
	err := row.Scan(&org.ID, &org.Name, &org.Email, &org.Verified, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	org.CreatedAt = parseTime(createdAt)
	return &org, nil
}

func (s *Store) Organizations(ctx context.Context) ([]ledger.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(email, ''), verified, created_at FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []ledger.Organization
	for rows.Next() {
		var org ledger.Organization
		var createdAt string
		if err := rows.Scan(&org.ID, &org.Name, &org.Email, &org.Verified, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		org.CreatedAt = parseTime(createdAt)
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (s *Store) SaveOrganization(ctx context.Context, org ledger.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, email, verified, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			verified = excluded.verified`,
		org.ID, org.Name, org.Email, org.Verified, org.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save organization: %w", err)
	}
	return nil
}

// =============================================================================
// VOLUNTEERS (the balance store)
// =============================================================================

func (s *Store) Volunteer(ctx context.Context, id ledger.VolunteerID) (*ledger.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(email, ''), volunteer_points, events_completed, volunteer_hours, created_at
		FROM volunteers WHERE id = ?`, id)

	v, err := scanVolunteer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return v, nil
}

func (s *Store) Volunteers(ctx context.Context) ([]ledger.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(email, ''), volunteer_points, events_completed, volunteer_hours, created_at
		FROM volunteers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []ledger.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		volunteers = append(volunteers, *v)
	}
	return volunteers, rows.Err()
}

func (s *Store) SaveVolunteer(ctx context.Context, v ledger.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO volunteers (id, name, email, volunteer_points, events_completed, volunteer_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			volunteer_points = excluded.volunteer_points,
			events_completed = excluded.events_completed,
			volunteer_hours = excluded.volunteer_hours`,
		v.ID, v.Name, v.Email, v.VolunteerPoints, v.EventsCompleted, v.VolunteerHours,
		v.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save volunteer: %w", err)
	}
	return nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) Event(ctx context.Context, id ledger.EventID) (*ledger.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, title, event_date, duration_hours, capacity, points_reward, status, created_at
		FROM events WHERE id = ?`, id)

	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (s *Store) Events(ctx context.Context) ([]ledger.Event, error) {
	return s.queryEvents(ctx, `
		SELECT id, org_id, title, event_date, duration_hours, capacity, points_reward, status, created_at
		FROM events ORDER BY event_date`)
}

func (s *Store) EventsByOrg(ctx context.Context, orgID ledger.OrgID) ([]ledger.Event, error) {
	return s.queryEvents(ctx, `
		SELECT id, org_id, title, event_date, duration_hours, capacity, points_reward, status, created_at
		FROM events WHERE org_id = ? ORDER BY event_date`, orgID)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]ledger.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *Store) SaveEvent(ctx context.Context, e ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, org_id, title, event_date, duration_hours, capacity, points_reward, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			event_date = excluded.event_date,
			duration_hours = excluded.duration_hours,
			capacity = excluded.capacity,
			points_reward = excluded.points_reward,
			status = excluded.status`,
		e.ID, e.OrgID, e.Title, e.Date.Format(time.RFC3339), e.DurationHours,
		e.Capacity, e.PointsReward, e.Status, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

func (s *Store) SetEventStatus(ctx context.Context, id ledger.EventID, status ledger.EventStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE events SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set event status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrEventNotFound
	}
	return nil
}

// =============================================================================
// REGISTRATIONS (the ledger)
// =============================================================================

const registrationColumns = `
	id, volunteer_id, event_id, attendance_status, attendance_confirmed,
	points_awarded, points_awarded_at, awarded_by_org_id,
	admin_reviewed, admin_reviewed_at, COALESCE(admin_notes, ''), registered_at`

func (s *Store) Registration(ctx context.Context, volunteerID ledger.VolunteerID, eventID ledger.EventID) (*ledger.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM event_registrations WHERE volunteer_id = ? AND event_id = ?`,
		volunteerID, eventID)
	return scanRegistrationRow(row)
}

func (s *Store) RegistrationByID(ctx context.Context, id ledger.RegistrationID) (*ledger.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM event_registrations WHERE id = ?`, id)
	return scanRegistrationRow(row)
}

func (s *Store) RegistrationsByEvent(ctx context.Context, eventID ledger.EventID) ([]ledger.Registration, error) {
	return s.queryRegistrations(ctx,
		`SELECT `+registrationColumns+` FROM event_registrations WHERE event_id = ? ORDER BY registered_at, id`,
		eventID)
}

func (s *Store) RegistrationsByVolunteer(ctx context.Context, volunteerID ledger.VolunteerID) ([]ledger.Registration, error) {
	return s.queryRegistrations(ctx,
		`SELECT `+registrationColumns+` FROM event_registrations WHERE volunteer_id = ? ORDER BY registered_at, id`,
		volunteerID)
}

func (s *Store) queryRegistrations(ctx context.Context, query string, args ...any) ([]ledger.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	var regs []ledger.Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// SaveRegistration creates a registration. The (volunteer, event) pair is
// unique; a duplicate maps to ledger.ErrDuplicateRegistration.
func (s *Store) SaveRegistration(ctx context.Context, r ledger.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_registrations
		(id, volunteer_id, event_id, attendance_status, attendance_confirmed,
		 points_awarded, points_awarded_at, awarded_by_org_id,
		 admin_reviewed, admin_reviewed_at, admin_notes, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.VolunteerID, r.EventID, r.AttendanceStatus, r.AttendanceConfirmed,
		r.PointsAwarded, nullTime(r.PointsAwardedAt), nullOrg(r.AwardedByOrg),
		r.AdminReviewed, nullTime(r.AdminReviewedAt), nullString(r.AdminNotes),
		r.RegisteredAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return ledger.ErrDuplicateRegistration
		}
		return fmt.Errorf("failed to save registration: %w", err)
	}
	return nil
}

// =============================================================================
// DISTRIBUTIONS (read projection)
// =============================================================================

func (s *Store) Distributions(ctx context.Context, filter ledger.DistributionFilter) ([]ledger.Distribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT r.id, r.volunteer_id, v.name, r.event_id, e.title, e.event_date,
		       r.awarded_by_org_id, COALESCE(o.name, 'Unknown'),
		       r.attendance_status, r.points_awarded, e.points_reward,
		       COALESCE(r.points_awarded_at, ''), r.admin_reviewed,
		       COALESCE(r.admin_reviewed_at, ''), COALESCE(r.admin_notes, '')
		FROM event_registrations r
		JOIN volunteers v ON v.id = r.volunteer_id
		JOIN events e ON e.id = r.event_id
		LEFT JOIN organizations o ON o.id = r.awarded_by_org_id
		WHERE r.points_awarded > 0`

	var args []any
	switch filter.Review {
	case ledger.FilterUnreviewed:
		query += ` AND r.admin_reviewed = FALSE`
	case ledger.FilterReviewed:
		query += ` AND r.admin_reviewed = TRUE`
	}
	if filter.Org != nil {
		query += ` AND r.awarded_by_org_id = ?`
		args = append(args, *filter.Org)
	}
	query += ` ORDER BY r.points_awarded_at DESC, r.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distributions: %w", err)
	}
	defer rows.Close()

	var dists []ledger.Distribution
	for rows.Next() {
		var d ledger.Distribution
		var orgID sql.NullString
		var eventDate string
		err := rows.Scan(
			&d.RegistrationID, &d.VolunteerID, &d.VolunteerName,
			&d.EventID, &d.EventTitle, &eventDate,
			&orgID, &d.OrgName,
			&d.AttendanceStatus, &d.PointsAwarded, &d.ExpectedPoints,
			&d.PointsAwardedAt, &d.AdminReviewed, &d.AdminReviewedAt, &d.AdminNotes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		if orgID.Valid {
			id := ledger.OrgID(orgID.String)
			d.OrgID = &id
		}
		d.EventDate = parseTime(eventDate).Format("2006-01-02")
		dists = append(dists, d)
	}
	return dists, rows.Err()
}

// =============================================================================
// ATOMIC PAIRED WRITES
// =============================================================================

// ApplyAward persists an awarded registration and the paired balance delta
// in one SQL transaction. The unawarded guard is re-checked by the UPDATE
// itself (WHERE points_awarded = 0): when a concurrent award got there
// first, no row is affected and ErrAlreadyAwarded is returned.
func (s *Store) ApplyAward(ctx context.Context, r ledger.Registration, delta ledger.BalanceDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE event_registrations
		SET attendance_status = ?, attendance_confirmed = ?,
		    points_awarded = ?, points_awarded_at = ?, awarded_by_org_id = ?
		WHERE id = ? AND points_awarded = 0`,
		r.AttendanceStatus, r.AttendanceConfirmed,
		r.PointsAwarded, nullTime(r.PointsAwardedAt), nullOrg(r.AwardedByOrg),
		r.ID)
	if err != nil {
		return fmt.Errorf("failed to apply award: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM event_registrations WHERE id = ?`, r.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to apply award: %w", err)
		}
		if exists == 0 {
			return ledger.ErrRegistrationNotFound
		}
		return ledger.ErrAlreadyAwarded
	}

	if err := applyDelta(ctx, tx, delta); err != nil {
		return err
	}
	return tx.Commit()
}

// ApplyReview persists a reviewed registration and the paired balance delta
// in one SQL transaction.
func (s *Store) ApplyReview(ctx context.Context, r ledger.Registration, delta ledger.BalanceDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE event_registrations
		SET attendance_status = ?, points_awarded = ?,
		    admin_reviewed = ?, admin_reviewed_at = ?, admin_notes = ?
		WHERE id = ?`,
		r.AttendanceStatus, r.PointsAwarded,
		r.AdminReviewed, nullTime(r.AdminReviewedAt), nullString(r.AdminNotes),
		r.ID)
	if err != nil {
		return fmt.Errorf("failed to apply review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrRegistrationNotFound
	}

	if err := applyDelta(ctx, tx, delta); err != nil {
		return err
	}
	return tx.Commit()
}

// applyDelta moves the volunteer's balance inside the caller's transaction.
// Floored deltas clamp points and events-completed at zero (the revoke
// rule); raw deltas apply as-is.
func applyDelta(ctx context.Context, tx *sql.Tx, delta ledger.BalanceDelta) error {
	if delta.IsZero() {
		return nil
	}

	query := `
		UPDATE volunteers
		SET volunteer_points = volunteer_points + ?,
		    events_completed = events_completed + ?,
		    volunteer_hours = volunteer_hours + ?
		WHERE id = ?`
	if delta.FloorAtZero {
		query = `
		UPDATE volunteers
		SET volunteer_points = MAX(0, volunteer_points + ?),
		    events_completed = MAX(0, events_completed + ?),
		    volunteer_hours = volunteer_hours + ?
		WHERE id = ?`
	}

	res, err := tx.ExecContext(ctx, query, delta.Points, delta.EventsCompleted, delta.Hours, delta.VolunteerID)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrVolunteerNotFound
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanVolunteer(row scanner) (*ledger.Volunteer, error) {
	var v ledger.Volunteer
	var createdAt string
	err := row.Scan(&v.ID, &v.Name, &v.Email,
		&v.VolunteerPoints, &v.EventsCompleted, &v.VolunteerHours, &createdAt)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}

func scanEvent(row scanner) (*ledger.Event, error) {
	var e ledger.Event
	var eventDate, createdAt string
	err := row.Scan(&e.ID, &e.OrgID, &e.Title, &eventDate, &e.DurationHours,
		&e.Capacity, &e.PointsReward, &e.Status, &createdAt)
	if err != nil {
		return nil, err
	}
	e.Date = parseTime(eventDate)
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

func scanRegistrationRow(row *sql.Row) (*ledger.Registration, error) {
	r, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRegistration(row scanner) (ledger.Registration, error) {
	var (
		r          ledger.Registration
		awardedAt  sql.NullString
		orgID      sql.NullString
		reviewedAt sql.NullString
		registered string
	)
	err := row.Scan(&r.ID, &r.VolunteerID, &r.EventID,
		&r.AttendanceStatus, &r.AttendanceConfirmed,
		&r.PointsAwarded, &awardedAt, &orgID,
		&r.AdminReviewed, &reviewedAt, &r.AdminNotes, &registered)
	if err == sql.ErrNoRows {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("failed to scan registration: %w", err)
	}

	if awardedAt.Valid {
		t := parseTime(awardedAt.String)
		r.PointsAwardedAt = &t
	}
	if orgID.Valid {
		id := ledger.OrgID(orgID.String)
		r.AwardedByOrg = &id
	}
	if reviewedAt.Valid {
		t := parseTime(reviewedAt.String)
		r.AdminReviewedAt = &t
	}
	r.RegisteredAt = parseTime(registered)
	return r, nil
}

// Helper functions

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func nullOrg(id *ledger.OrgID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*id), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time check that Store implements ledger.Store.
var _ ledger.Store = (*Store)(nil)
