/*
errors.go - Centralized error types for the ledger core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify with errors.Is and the helpers at the bottom; the HTTP
  layer maps these onto status codes.

ERROR CATEGORIES:
  1. Not-found errors - referenced entity absent, abort the operation
  2. Authorization errors - caller does not own the event
  3. Soft errors - per-item batch failures collected as warnings
  4. Integrity errors - balance/ledger drift, must never occur

USAGE:
  if errors.Is(err, ledger.ErrAlreadyAwarded) {
      // retry of an already processed entry, safe to surface as a warning
  }

SEE ALSO:
  - award.go: Collects soft errors into batch warnings
  - audit.go: Surfaces ErrLedgerDrift from the integrity check
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEventNotFound is returned when a referenced event doesn't exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrRegistrationNotFound is returned when no registration exists for the
	// referenced identity or (volunteer, event) pair.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrVolunteerNotFound is returned when a referenced volunteer doesn't exist.
	ErrVolunteerNotFound = errors.New("volunteer not found")

	// ErrOrganizationNotFound is returned when a referenced organization doesn't exist.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrNotEventOwner is returned when an organization operates on an event
	// it does not own. Nothing is mutated.
	ErrNotEventOwner = errors.New("not authorized to manage this event")

	// ErrAlreadyAwarded is the idempotency guard. The registration already has
	// points awarded, so the entry is a no-op. Soft in batch mode: collected
	// as a warning, never aborting the remaining entries.
	ErrAlreadyAwarded = errors.New("points already awarded")

	// ErrInvalidStatus is returned for an attendance status the award policy
	// doesn't recognize.
	ErrInvalidStatus = errors.New("invalid attendance status")

	// ErrInvalidAction is returned for an unrecognized review action, or an
	// adjust without a valid new point quantity.
	ErrInvalidAction = errors.New("invalid review action")

	// ErrDuplicateRegistration is returned when a (volunteer, event) pair is
	// registered twice. The pair is unique; this is expected on retries.
	ErrDuplicateRegistration = errors.New("volunteer already registered for event")

	// ErrLedgerDrift is returned when a volunteer's stored balance disagrees
	// with the sum of their non-revoked awards. This must never occur if
	// write atomicity is respected; it is surfaced as a fatal integrity
	// error, never silently repaired.
	ErrLedgerDrift = errors.New("balance does not reconcile with ledger")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DriftError describes a detected balance/ledger mismatch.
type DriftError struct {
	VolunteerID VolunteerID
	LedgerTotal int // sum of awarded points over non-revoked registrations
	Balance     int // the volunteer's stored point balance
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("balance drift for volunteer %s: ledger total %d, stored balance %d",
		e.VolunteerID, e.LedgerTotal, e.Balance)
}

func (e *DriftError) Unwrap() error { return ErrLedgerDrift }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrRegistrationNotFound) ||
		errors.Is(err, ErrVolunteerNotFound) ||
		errors.Is(err, ErrOrganizationNotFound)
}

// IsClientError returns true if the error is due to invalid caller input or
// a retried operation, as opposed to an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAlreadyAwarded) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrDuplicateRegistration)
}
