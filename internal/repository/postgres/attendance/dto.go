package attendance

import (
	"encoding/json"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	Search     *string
	SchoolID   *int
	Department *string
	IsLate     *bool
	Date       *string
}

type GetListResponse struct {
	ID              int        `json:"id"`
	StaffID         *int       `json:"staff_id"`
	ExternalID      *string    `json:"external_id"`
	FullName        *string    `json:"full_name"`
	Department      *string    `json:"department"`
	SchoolID        *int       `json:"school_id"`
	School          *string    `json:"school"`
	WorkDay         *date.Date `json:"work_day"`
	ComeTime        *time.Time `json:"come_time,omitempty"`
	LeaveTime       *time.Time `json:"leave_time,omitempty"`
	IsLate          bool       `json:"is_late"`
	LateMinutes     int        `json:"late_minutes"`
	OvertimeMinutes int        `json:"overtime_minutes"`
	TotalHours      string     `json:"total_hours"`
}

func (r *GetListResponse) MarshalJSON() ([]byte, error) {
	type Alias GetListResponse
	aux := &struct {
		ComeTime  string `json:"come_time,omitempty"`
		LeaveTime string `json:"leave_time,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if r.ComeTime != nil {
		aux.ComeTime = r.ComeTime.Format("15:04")
	}

	if r.LeaveTime != nil {
		aux.LeaveTime = r.LeaveTime.Format("15:04")
	}

	return json.Marshal(aux)
}

type GetDetailByIdResponse struct {
	ID              int        `json:"id"`
	StaffID         *int       `json:"staff_id"`
	ExternalID      *string    `json:"external_id"`
	FullName        *string    `json:"full_name"`
	Department      *string    `json:"department"`
	SchoolID        *int       `json:"school_id"`
	School          *string    `json:"school"`
	WorkDay         *date.Date `json:"work_day"`
	ComeTime        *time.Time `json:"come_time,omitempty"`
	LeaveTime       *time.Time `json:"leave_time,omitempty"`
	IsLate          bool       `json:"is_late"`
	LateMinutes     int        `json:"late_minutes"`
	OvertimeMinutes int        `json:"overtime_minutes"`
	TotalHours      string     `json:"total_hours"`
}

// SignInRow is the insert model used by CreateSignIn.
type SignInRow struct {
	bun.BaseModel `bun:"table:attendance"`

	ID          int       `bun:"id,pk,autoincrement"`
	StaffID     int       `bun:"staff_id"`
	WorkDay     string    `bun:"work_day"`
	ComeTime    time.Time `bun:"come_time"`
	IsLate      bool      `bun:"is_late"`
	LateMinutes int       `bun:"late_minutes"`
	CreatedAt   time.Time `bun:"created_at"`
}

type MonthlySummary struct {
	ExternalID      string `json:"external_id"`
	FullName        string `json:"full_name"`
	Department      string `json:"department"`
	DaysPresent     int    `json:"days_present"`
	DaysLate        int    `json:"days_late"`
	LateMinutes     int    `json:"late_minutes"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}
