package school

import (
	"testing"
	"time"

	"schoolsync/backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestWeeklySchedule(t *testing.T) {
	s := entity.School{
		MonStart: strPtr("08:00"),
		MonEnd:   strPtr("17:00"),
		WedStart: strPtr("09:30"),
		WedEnd:   strPtr("15:00"),
	}

	sched, err := WeeklySchedule(s)
	require.NoError(t, err)

	mon := sched.Resolve(time.Monday)
	require.NotNil(t, mon)
	assert.Equal(t, "08:00", mon.Start.String())
	assert.Equal(t, "17:00", mon.End.String())

	wed := sched.Resolve(time.Wednesday)
	require.NotNil(t, wed)
	assert.Equal(t, "09:30", wed.Start.String())

	// Days without both bounds have no schedule.
	assert.Nil(t, sched.Resolve(time.Tuesday))
	assert.Nil(t, sched.Resolve(time.Saturday))
	assert.Nil(t, sched.Resolve(time.Sunday))
}

func TestWeeklyScheduleHalfConfigured(t *testing.T) {
	s := entity.School{
		MonStart: strPtr("08:00"),
	}

	sched, err := WeeklySchedule(s)
	require.NoError(t, err)
	assert.Nil(t, sched.Resolve(time.Monday))
}

func TestWeeklyScheduleInvalidTime(t *testing.T) {
	s := entity.School{
		MonStart: strPtr("8 o'clock"),
		MonEnd:   strPtr("17:00"),
	}

	_, err := WeeklySchedule(s)
	assert.Error(t, err)
}

func TestValidateScheduleFields(t *testing.T) {
	ok := ScheduleFields{MonStart: strPtr("08:00"), FriEnd: strPtr("16:45")}
	assert.NoError(t, validateScheduleFields(ok))

	empty := ScheduleFields{MonStart: strPtr("")}
	assert.NoError(t, validateScheduleFields(empty))

	bad := ScheduleFields{TueStart: strPtr("25:99")}
	assert.Error(t, validateScheduleFields(bad))
}

func TestNewKioskToken(t *testing.T) {
	a, err := newKioskToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := newKioskToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
