package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// EventType tags a raw kiosk event.
type EventType string

const (
	EventSignIn  EventType = "sign_in"
	EventSignOut EventType = "sign_out"
)

// RawEvent is one record as submitted by a kiosk, unvalidated.
type RawEvent struct {
	StaffID   string `json:"staff_id" form:"staff_id"`
	Date      string `json:"date" form:"date"`
	Timestamp string `json:"timestamp" form:"timestamp"`
	Type      string `json:"type" form:"type"`
}

// StaffRef is the resolved identity of a staff member, scoped to a school.
type StaffRef struct {
	ID         int
	ExternalID string
	Name       string
	Department string
}

// Event is a validated kiosk event bound to a resolved staff member.
type Event struct {
	Staff StaffRef
	Date  time.Time
	At    time.Time
	Type  EventType
}

// WorkDay returns the event's calendar date in the store's key format.
func (e Event) WorkDay() string {
	return e.Date.Format("2006-01-02")
}

// Tenant is what the engine needs to know about the school a batch belongs
// to.
type Tenant struct {
	ID       int
	Schedule WeeklySchedule
}

// Record mirrors the persisted attendance row as seen by the engine.
type Record struct {
	ID              int
	StaffID         int
	WorkDay         string
	ComeTime        time.Time
	LeaveTime       *time.Time
	IsLate          bool
	LateMinutes     int
	OvertimeMinutes int
}

// ErrDuplicateRecord is returned by Store.CreateSignIn when a record for the
// (staff, day) pair already exists. The reconciler treats it as the
// idempotent no-op, so a racing duplicate creation fails safely.
var ErrDuplicateRecord = errors.New("attendance record already exists")

// ErrStaffNotFound is returned by StaffDirectory when an external id does not
// resolve within the school.
var ErrStaffNotFound = errors.New("staff not found")

// Store is the attendance state the engine mutates. The read-check-write
// sequence built on it is serialized per (staff, day) by the orchestrator;
// the unique constraint behind CreateSignIn is the safety net.
type Store interface {
	// GetByStaffDate returns the record for the pair, or nil when none
	// exists.
	GetByStaffDate(ctx context.Context, staffID int, workDay string) (*Record, error)

	// CreateSignIn persists a new record and, when bumpLate is set,
	// increments the staff member's times_late counter in the same
	// transaction.
	CreateSignIn(ctx context.Context, rec Record, bumpLate bool) error

	// CloseSignOut sets the sign out time and overtime on an open record.
	CloseSignOut(ctx context.Context, recordID int, leaveTime time.Time, overtimeMinutes int) error
}

// StaffDirectory resolves kiosk submitted staff ids within a school.
type StaffDirectory interface {
	ResolveExternalID(ctx context.Context, schoolID int, externalID string) (StaffRef, error)
}

// Record level failure reasons.
type Reason string

const (
	ReasonMalformedTimestamp Reason = "MalformedTimestamp"
	ReasonStaffNotFound      Reason = "StaffNotFound"
	ReasonUnknownEventType   Reason = "UnknownEventType"
)

// RecordError is a structured per record failure. The submitted staff id is
// always included so an operator can correct and resubmit.
type RecordError struct {
	StaffID string
	Reason  Reason
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: staff %q: %v", e.Reason, e.StaffID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
