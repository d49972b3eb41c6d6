package engine

import (
	"context"

	"github.com/pkg/errors"
)

// Status is the three state answer to "where is this staff member today".
type Status string

const (
	StatusNotSignedIn Status = "not_signed_in"
	StatusSignedIn    Status = "signed_in"
	StatusSignedOut   Status = "signed_out"
)

// CheckStatus reports the attendance state of a staff member for a day.
// Pure read, no mutation.
func CheckStatus(ctx context.Context, store Store, staffID int, workDay string) (Status, error) {
	rec, err := store.GetByStaffDate(ctx, staffID, workDay)
	if err != nil {
		return "", errors.Wrap(err, "looking up attendance")
	}

	switch {
	case rec == nil:
		return StatusNotSignedIn, nil
	case rec.LeaveTime == nil:
		return StatusSignedIn, nil
	default:
		return StatusSignedOut, nil
	}
}
