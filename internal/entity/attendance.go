package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance is the canonical record of one staff member's day. At most one
// row exists per (staff_id, work_day), enforced by a unique index.
type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	BasicEntity
	StaffID         *int       `json:"staff_id" bun:"staff_id"`
	WorkDay         string     `json:"work_day" bun:"work_day"`
	ComeTime        *time.Time `json:"come_time" bun:"come_time"`
	LeaveTime       *time.Time `json:"leave_time" bun:"leave_time"`
	IsLate          bool       `json:"is_late" bun:"is_late"`
	LateMinutes     int        `json:"late_minutes" bun:"late_minutes"`
	OvertimeMinutes int        `json:"overtime_minutes" bun:"overtime_minutes"`
}
