package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Timestamp layouts kiosks are known to send.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalizer turns raw kiosk events into validated events bound to resolved
// staff members. It has no side effects.
type Normalizer struct {
	staff StaffDirectory
}

func NewNormalizer(staff StaffDirectory) Normalizer {
	return Normalizer{staff: staff}
}

// Normalize validates one raw event within the given school's scope.
// Failures are returned as *RecordError with the submitted staff id.
func (n Normalizer) Normalize(ctx context.Context, schoolID int, raw RawEvent) (Event, error) {
	day, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		return Event{}, &RecordError{
			StaffID: raw.StaffID,
			Reason:  ReasonMalformedTimestamp,
			Err:     errors.Wrapf(err, "invalid date %q", raw.Date),
		}
	}

	var at time.Time
	parsed := false
	for _, layout := range timestampLayouts {
		if at, err = time.Parse(layout, raw.Timestamp); err == nil {
			parsed = true
			break
		}
	}
	if !parsed {
		return Event{}, &RecordError{
			StaffID: raw.StaffID,
			Reason:  ReasonMalformedTimestamp,
			Err:     errors.Errorf("invalid timestamp %q", raw.Timestamp),
		}
	}

	typ := EventType(raw.Type)
	if typ != EventSignIn && typ != EventSignOut {
		return Event{}, &RecordError{
			StaffID: raw.StaffID,
			Reason:  ReasonUnknownEventType,
			Err:     errors.Errorf("unknown event type %q", raw.Type),
		}
	}

	staff, err := n.staff.ResolveExternalID(ctx, schoolID, raw.StaffID)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return Event{}, &RecordError{
				StaffID: raw.StaffID,
				Reason:  ReasonStaffNotFound,
				Err:     errors.Errorf("staff id %q not found", raw.StaffID),
			}
		}
		return Event{}, errors.Wrapf(err, "resolving staff %q", raw.StaffID)
	}

	return Event{
		Staff: staff,
		Date:  day,
		At:    at,
		Type:  typ,
	}, nil
}
