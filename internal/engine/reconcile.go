package engine

import (
	"context"

	"schoolsync/backend/internal/entity"

	"github.com/pkg/errors"
)

// Reconciler applies one normalized event to the attendance state. Events
// that cannot apply because of the one-record-per-day rules are defined
// no-ops, not errors.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) Reconciler {
	return Reconciler{store: store}
}

// Apply mutates state for one event and reports whether anything changed.
// The caller must hold the (staff, day) lock.
func (r Reconciler) Apply(ctx context.Context, sched WeeklySchedule, ev Event) (bool, error) {
	switch ev.Type {
	case EventSignIn:
		return r.signIn(ctx, sched, ev)
	case EventSignOut:
		return r.signOut(ctx, sched, ev)
	default:
		return false, errors.Errorf("unhandled event type %q", ev.Type)
	}
}

func (r Reconciler) signIn(ctx context.Context, sched WeeklySchedule, ev Event) (bool, error) {
	existing, err := r.store.GetByStaffDate(ctx, ev.Staff.ID, ev.WorkDay())
	if err != nil {
		return false, errors.Wrap(err, "looking up attendance")
	}
	if existing != nil {
		// Duplicate or retried sign-in. The first record wins.
		return false, nil
	}

	rec := Record{
		StaffID:  ev.Staff.ID,
		WorkDay:  ev.WorkDay(),
		ComeTime: ev.At,
	}

	bumpLate := false
	day := sched.Resolve(ev.Date.Weekday())
	if day != nil && ev.Staff.Department != entity.DepartmentManagement {
		// Arriving exactly at the scheduled start is on time.
		if at := MinuteOfDay(ev.At); at > day.Start {
			rec.IsLate = true
			rec.LateMinutes = int(at - day.Start)
			bumpLate = true
		}
	}

	err = r.store.CreateSignIn(ctx, rec, bumpLate)
	if errors.Is(err, ErrDuplicateRecord) {
		// Lost a race with another kiosk. Same outcome as the duplicate
		// sign-in above.
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "creating attendance")
	}

	return true, nil
}

func (r Reconciler) signOut(ctx context.Context, sched WeeklySchedule, ev Event) (bool, error) {
	existing, err := r.store.GetByStaffDate(ctx, ev.Staff.ID, ev.WorkDay())
	if err != nil {
		return false, errors.Wrap(err, "looking up attendance")
	}
	if existing == nil || existing.LeaveTime != nil {
		// No open day to close, or the day is already closed. Only the
		// first accepted sign-out takes effect.
		return false, nil
	}

	overtime := 0
	if day := sched.Resolve(ev.Date.Weekday()); day != nil {
		if at := MinuteOfDay(ev.At); at > day.End {
			overtime = int(at - day.End)
		}
	}

	if err := r.store.CloseSignOut(ctx, existing.ID, ev.At, overtime); err != nil {
		return false, errors.Wrap(err, "closing attendance")
	}

	return true, nil
}
