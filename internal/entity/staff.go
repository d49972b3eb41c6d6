package entity

import (
	"github.com/uptrace/bun"
)

// Staff departments. MANAGEMENT staff are exempt from lateness and absence
// classification.
const (
	DepartmentAcademic    = "ACADEMIC"
	DepartmentAdmin       = "ADMIN"
	DepartmentNonAcademic = "NON_ACADEMIC"
	DepartmentManagement  = "MANAGEMENT"
)

type Staff struct {
	bun.BaseModel `bun:"table:staff"`

	BasicEntity
	SchoolID   *int    `json:"school_id" bun:"school_id"`
	ExternalID *string `json:"external_id" bun:"external_id"`
	FullName   *string `json:"full_name" bun:"full_name"`
	Department *string `json:"department" bun:"department"`
	Active     *bool   `json:"active" bun:"active"`
	TimesLate  int     `json:"times_late" bun:"times_late"`
}
