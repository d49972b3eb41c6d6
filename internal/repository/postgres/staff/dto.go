package staff

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit      *int
	Offset     *int
	Page       *int
	Search     *string
	SchoolID   *int
	Department *string
	Active     *bool
}

// RosterItem is one entry of the kiosk get_staff response. ID carries the
// external id kiosks submit events with, not the database key.
type RosterItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type GetListResponse struct {
	ID         int     `json:"id"`
	ExternalID *string `json:"external_id"`
	FullName   *string `json:"full_name"`
	Department *string `json:"department"`
	Active     *bool   `json:"active"`
	TimesLate  int     `json:"times_late"`
	SchoolID   *int    `json:"school_id"`
	School     *string `json:"school"`
}

type CreateRequest struct {
	SchoolID   *int    `json:"school_id" form:"school_id" validate:"required"`
	ExternalID *string `json:"external_id" form:"external_id" validate:"required"`
	FullName   *string `json:"full_name" form:"full_name" validate:"required"`
	Department *string `json:"department" form:"department" validate:"required"`
	Active     *bool   `json:"active" form:"active"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:staff"`

	ID         int       `json:"id" bun:"-"`
	SchoolID   *int      `json:"school_id" bun:"school_id"`
	ExternalID *string   `json:"external_id" bun:"external_id"`
	FullName   *string   `json:"full_name" bun:"full_name"`
	Department *string   `json:"department" bun:"department"`
	Active     bool      `json:"active" bun:"active"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
	CreatedBy  int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID         int     `json:"id" form:"id" validate:"required"`
	ExternalID *string `json:"external_id" form:"external_id"`
	FullName   *string `json:"full_name" form:"full_name"`
	Department *string `json:"department" form:"department"`
	Active     *bool   `json:"active" form:"active"`
}

type ExportRow struct {
	ExternalID string  `json:"external_id"`
	FullName   string  `json:"full_name"`
	Department string  `json:"department"`
	Active     bool    `json:"active"`
	TimesLate  int     `json:"times_late"`
	School     *string `json:"school"`
}
