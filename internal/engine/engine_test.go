package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"schoolsync/backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	nextID    int
	records   map[string]*Record
	lateBumps map[int]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:   make(map[string]*Record),
		lateBumps: make(map[int]int),
	}
}

func storeKey(staffID int, workDay string) string {
	return fmt.Sprintf("%d|%s", staffID, workDay)
}

func (s *fakeStore) GetByStaffDate(_ context.Context, staffID int, workDay string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[storeKey(staffID, workDay)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) CreateSignIn(_ context.Context, rec Record, bumpLate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(rec.StaffID, rec.WorkDay)
	if _, ok := s.records[key]; ok {
		return ErrDuplicateRecord
	}

	s.nextID++
	rec.ID = s.nextID
	s.records[key] = &rec
	if bumpLate {
		s.lateBumps[rec.StaffID]++
	}
	return nil
}

func (s *fakeStore) CloseSignOut(_ context.Context, recordID int, leaveTime time.Time, overtimeMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ID == recordID {
			t := leaveTime
			rec.LeaveTime = &t
			rec.OvertimeMinutes = overtimeMinutes
			return nil
		}
	}
	return fmt.Errorf("record %d not found", recordID)
}

type fakeDirectory struct {
	staff map[string]StaffRef
}

func (d *fakeDirectory) ResolveExternalID(_ context.Context, _ int, externalID string) (StaffRef, error) {
	ref, ok := d.staff[externalID]
	if !ok {
		return StaffRef{}, ErrStaffNotFound
	}
	return ref, nil
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{staff: map[string]StaffRef{
		"T001": {ID: 1, ExternalID: "T001", Name: "Alice Okello", Department: entity.DepartmentAcademic},
		"T002": {ID: 2, ExternalID: "T002", Name: "Ben Ssali", Department: entity.DepartmentAdmin},
		"M001": {ID: 3, ExternalID: "M001", Name: "Head Teacher", Department: entity.DepartmentManagement},
	}}
}

// Monday through Friday, 08:00-17:00.
func testTenant() Tenant {
	day := &DaySchedule{Start: 8 * 60, End: 17 * 60}
	return Tenant{
		ID:       10,
		Schedule: WeeklySchedule{day, day, day, day, day},
	}
}

func signIn(staff, date, ts string) RawEvent {
	return RawEvent{StaffID: staff, Date: date, Timestamp: ts, Type: "sign_in"}
}

func signOut(staff, date, ts string) RawEvent {
	return RawEvent{StaffID: staff, Date: date, Timestamp: ts, Type: "sign_out"}
}

func TestScheduleResolve(t *testing.T) {
	day := &DaySchedule{Start: 8 * 60, End: 17 * 60}
	sched := WeeklySchedule{day, day, day, day, day}

	for wd := time.Monday; wd <= time.Friday; wd++ {
		require.NotNil(t, sched.Resolve(wd), "weekday %v", wd)
	}
	assert.Nil(t, sched.Resolve(time.Saturday))
	assert.Nil(t, sched.Resolve(time.Sunday))

	var empty WeeklySchedule
	assert.Nil(t, empty.Resolve(time.Monday))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(510), tod)
	assert.Equal(t, "08:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestNormalizeErrors(t *testing.T) {
	n := NewNormalizer(testDirectory())
	ctx := context.Background()

	tests := []struct {
		name   string
		raw    RawEvent
		reason Reason
	}{
		{"bad date", signIn("T001", "2025-13-40", "2025-03-03T08:00:00"), ReasonMalformedTimestamp},
		{"bad timestamp", signIn("T001", "2025-03-03", "yesterday"), ReasonMalformedTimestamp},
		{"unknown type", RawEvent{StaffID: "T001", Date: "2025-03-03", Timestamp: "2025-03-03T08:00:00", Type: "lunch"}, ReasonUnknownEventType},
		{"unknown staff", signIn("GHOST", "2025-03-03", "2025-03-03T08:00:00"), ReasonStaffNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(ctx, 10, tt.raw)
			require.Error(t, err)
			recErr, ok := err.(*RecordError)
			require.True(t, ok, "expected *RecordError, got %T", err)
			assert.Equal(t, tt.reason, recErr.Reason)
			assert.Contains(t, err.Error(), tt.raw.StaffID)
		})
	}
}

func TestNormalizeSuccess(t *testing.T) {
	n := NewNormalizer(testDirectory())

	ev, err := n.Normalize(context.Background(), 10, signIn("T001", "2025-03-03", "2025-03-03T08:15:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Staff.ID)
	assert.Equal(t, EventSignIn, ev.Type)
	assert.Equal(t, "2025-03-03", ev.WorkDay())
	assert.Equal(t, TimeOfDay(8*60+15), MinuteOfDay(ev.At))
}

// 2025-03-03 is a Monday.
func TestLateSignInScenario(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)
	ctx := context.Background()

	res := o.Sync(ctx, testTenant(), []RawEvent{signIn("T001", "2025-03-03", "2025-03-03T08:15:00")})
	assert.Equal(t, 1, res.Synced)
	assert.Empty(t, res.Errors)

	rec := store.records[storeKey(1, "2025-03-03")]
	require.NotNil(t, rec)
	assert.True(t, rec.IsLate)
	assert.Equal(t, 15, rec.LateMinutes)
	assert.Equal(t, 1, store.lateBumps[1])

	// Sign out 17:30 -> 30 minutes overtime on the same record.
	res = o.Sync(ctx, testTenant(), []RawEvent{signOut("T001", "2025-03-03", "2025-03-03T17:30:00")})
	assert.Equal(t, 1, res.Synced)

	rec = store.records[storeKey(1, "2025-03-03")]
	require.NotNil(t, rec.LeaveTime)
	assert.Equal(t, 30, rec.OvertimeMinutes)

	// A further sign-out cannot re-open or overwrite the closed day.
	res = o.Sync(ctx, testTenant(), []RawEvent{signOut("T001", "2025-03-03", "2025-03-03T18:00:00")})
	assert.Equal(t, 0, res.Synced)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 30, store.records[storeKey(1, "2025-03-03")].OvertimeMinutes)
	assert.Equal(t, 17, store.records[storeKey(1, "2025-03-03")].LeaveTime.Hour())
}

func TestSignInIdempotence(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)
	ctx := context.Background()

	batch := []RawEvent{signIn("T001", "2025-03-03", "2025-03-03T08:15:00")}

	res := o.Sync(ctx, testTenant(), batch)
	assert.Equal(t, 1, res.Synced)

	res = o.Sync(ctx, testTenant(), batch)
	assert.Equal(t, 0, res.Synced)
	assert.Empty(t, res.Errors)

	assert.Len(t, store.records, 1)
	assert.Equal(t, 1, store.lateBumps[1], "times_late must not double increment")
}

func TestSignOutBeforeSignInOrdering(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)
	ctx := context.Background()

	res := o.Sync(ctx, testTenant(), []RawEvent{
		signOut("T001", "2025-03-03", "2025-03-03T17:00:00"),
		signIn("T001", "2025-03-03", "2025-03-03T08:00:00"),
	})

	// The sign-out had no open day and is a no-op; the sign-in still
	// creates the record with no sign-out time.
	assert.Equal(t, 1, res.Synced)
	assert.Empty(t, res.Errors)

	rec := store.records[storeKey(1, "2025-03-03")]
	require.NotNil(t, rec)
	assert.Nil(t, rec.LeaveTime)
}

func TestBoundaryTimes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		events   []RawEvent
		late     bool
		lateMin  int
		overtime int
	}{
		{
			name: "exactly on time",
			events: []RawEvent{
				signIn("T001", "2025-03-03", "2025-03-03T08:00:00"),
				signOut("T001", "2025-03-03", "2025-03-03T17:00:00"),
			},
		},
		{
			name: "one minute past both boundaries",
			events: []RawEvent{
				signIn("T001", "2025-03-03", "2025-03-03T08:01:00"),
				signOut("T001", "2025-03-03", "2025-03-03T17:01:00"),
			},
			late:     true,
			lateMin:  1,
			overtime: 1,
		},
		{
			name: "early arrival early leave",
			events: []RawEvent{
				signIn("T001", "2025-03-03", "2025-03-03T07:30:00"),
				signOut("T001", "2025-03-03", "2025-03-03T16:00:00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			o := NewOrchestrator(testDirectory(), store)

			res := o.Sync(ctx, testTenant(), tt.events)
			assert.Equal(t, 2, res.Synced)

			rec := store.records[storeKey(1, "2025-03-03")]
			require.NotNil(t, rec)
			assert.Equal(t, tt.late, rec.IsLate)
			assert.Equal(t, tt.lateMin, rec.LateMinutes)
			assert.Equal(t, tt.overtime, rec.OvertimeMinutes)
		})
	}
}

func TestWeekendNeverLate(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)

	// 2025-03-08 is a Saturday.
	res := o.Sync(context.Background(), testTenant(), []RawEvent{
		signIn("T001", "2025-03-08", "2025-03-08T11:45:00"),
	})
	assert.Equal(t, 1, res.Synced)

	rec := store.records[storeKey(1, "2025-03-08")]
	require.NotNil(t, rec)
	assert.False(t, rec.IsLate)
	assert.Zero(t, rec.LateMinutes)
	assert.Zero(t, store.lateBumps[1])
}

func TestManagementExemptFromLateness(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)

	res := o.Sync(context.Background(), testTenant(), []RawEvent{
		signIn("M001", "2025-03-03", "2025-03-03T10:00:00"),
	})
	assert.Equal(t, 1, res.Synced)

	rec := store.records[storeKey(3, "2025-03-03")]
	require.NotNil(t, rec)
	assert.False(t, rec.IsLate)
	assert.Zero(t, store.lateBumps[3])
}

func TestPartialFailure(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)

	res := o.Sync(context.Background(), testTenant(), []RawEvent{
		signIn("T001", "2025-03-03", "2025-03-03T08:00:00"),
		signIn("T002", "2025-03-03", "2025-03-03T08:05:00"),
		signIn("GHOST", "2025-03-03", "2025-03-03T08:10:00"),
		signOut("T001", "2025-03-03", "2025-03-03T17:00:00"),
		signOut("T002", "2025-03-03", "2025-03-03T17:10:00"),
	})

	assert.Equal(t, 4, res.Synced)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "GHOST")
	assert.Len(t, store.records, 2)
}

func TestConcurrentDuplicateSignIn(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)
	batch := []RawEvent{signIn("T001", "2025-03-03", "2025-03-03T08:15:00")}

	var wg sync.WaitGroup
	synced := make([]int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			synced[i] = o.Sync(context.Background(), testTenant(), batch).Synced
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range synced {
		total += n
	}
	assert.Equal(t, 1, total, "exactly one batch may apply the sign-in")
	assert.Len(t, store.records, 1)
	assert.Equal(t, 1, store.lateBumps[1])
}

func TestCheckStatus(t *testing.T) {
	store := newFakeStore()
	o := NewOrchestrator(testDirectory(), store)
	ctx := context.Background()

	status, err := CheckStatus(ctx, store, 1, "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, StatusNotSignedIn, status)

	o.Sync(ctx, testTenant(), []RawEvent{signIn("T001", "2025-03-03", "2025-03-03T08:00:00")})
	status, err = CheckStatus(ctx, store, 1, "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, StatusSignedIn, status)

	o.Sync(ctx, testTenant(), []RawEvent{signOut("T001", "2025-03-03", "2025-03-03T17:00:00")})
	status, err = CheckStatus(ctx, store, 1, "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, StatusSignedOut, status)
}

func TestEmptyBatch(t *testing.T) {
	o := NewOrchestrator(testDirectory(), newFakeStore())

	res := o.Sync(context.Background(), testTenant(), nil)
	assert.Zero(t, res.Synced)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)
}
