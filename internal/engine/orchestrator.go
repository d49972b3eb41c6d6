// Package engine reconciles raw kiosk sign-in/sign-out events into canonical
// per (staff, day) attendance records, classifying lateness and overtime
// against the school's weekly schedule.
package engine

import (
	"context"
)

// Result is the aggregate outcome of one batch. It is returned to the caller
// even when every record failed; record failures never abort a batch.
type Result struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

// Orchestrator drives batches of raw events through normalization and
// reconciliation, isolating failures per record.
type Orchestrator struct {
	normalizer Normalizer
	reconciler Reconciler
	locks      *keyLock
}

func NewOrchestrator(staff StaffDirectory, store Store) *Orchestrator {
	return &Orchestrator{
		normalizer: NewNormalizer(staff),
		reconciler: NewReconciler(store),
		locks:      newKeyLock(),
	}
}

// Sync processes the batch strictly in submission order. Each record either
// changes state (counted in Synced), is a defined no-op, or fails into the
// error list.
func (o *Orchestrator) Sync(ctx context.Context, tenant Tenant, raws []RawEvent) Result {
	result := Result{Errors: []string{}}

	for _, raw := range raws {
		ev, err := o.normalizer.Normalize(ctx, tenant.ID, raw)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		applied, err := o.apply(ctx, tenant.Schedule, ev)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if applied {
			result.Synced++
		}
	}

	return result
}

func (o *Orchestrator) apply(ctx context.Context, sched WeeklySchedule, ev Event) (bool, error) {
	key := lockKey{staffID: ev.Staff.ID, workDay: ev.WorkDay()}
	o.locks.lock(key)
	defer o.locks.unlock(key)

	return o.reconciler.Apply(ctx, sched, ev)
}
