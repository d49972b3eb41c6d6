package engine

import (
	"fmt"
	"net/http"
	"time"

	"schoolsync/backend/foundation/web"

	"github.com/pkg/errors"
)

// TimeOfDay is a clock time expressed as whole minutes from midnight.
// Lateness and overtime are computed at minute granularity, so seconds in
// event timestamps are ignored.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrapf(err, "parsing time of day %q", s), http.StatusBadRequest)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MinuteOfDay extracts the TimeOfDay of a moment.
func MinuteOfDay(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// DaySchedule is one weekday's scheduled working window.
type DaySchedule struct {
	Start TimeOfDay
	End   TimeOfDay
}

// WeeklySchedule holds the working window for each weekday, indexed
// Monday=0 through Friday=4. Saturday and Sunday are non working days.
type WeeklySchedule [5]*DaySchedule

// Resolve returns the schedule for the given weekday, or nil for weekend
// days and weekdays with no schedule configured.
func (w WeeklySchedule) Resolve(day time.Weekday) *DaySchedule {
	if day == time.Saturday || day == time.Sunday {
		return nil
	}
	return w[(int(day)+6)%7]
}
