package school

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

// ScheduleFields carries the per weekday start/end times as they travel in
// requests and rows. Embedded wherever the schedule is read or written.
type ScheduleFields struct {
	MonStart *string `json:"mon_start" form:"mon_start" bun:"mon_start"`
	MonEnd   *string `json:"mon_end" form:"mon_end" bun:"mon_end"`
	TueStart *string `json:"tue_start" form:"tue_start" bun:"tue_start"`
	TueEnd   *string `json:"tue_end" form:"tue_end" bun:"tue_end"`
	WedStart *string `json:"wed_start" form:"wed_start" bun:"wed_start"`
	WedEnd   *string `json:"wed_end" form:"wed_end" bun:"wed_end"`
	ThuStart *string `json:"thu_start" form:"thu_start" bun:"thu_start"`
	ThuEnd   *string `json:"thu_end" form:"thu_end" bun:"thu_end"`
	FriStart *string `json:"fri_start" form:"fri_start" bun:"fri_start"`
	FriEnd   *string `json:"fri_end" form:"fri_end" bun:"fri_end"`
}

func (s ScheduleFields) columns() map[string]*string {
	return map[string]*string{
		"mon_start": s.MonStart, "mon_end": s.MonEnd,
		"tue_start": s.TueStart, "tue_end": s.TueEnd,
		"wed_start": s.WedStart, "wed_end": s.WedEnd,
		"thu_start": s.ThuStart, "thu_end": s.ThuEnd,
		"fri_start": s.FriStart, "fri_end": s.FriEnd,
	}
}

type GetListResponse struct {
	ID        int     `json:"id"`
	Name      *string `json:"name"`
	ShortName *string `json:"short_name"`
}

type CreateRequest struct {
	Name      *string `json:"name" form:"name" validate:"required"`
	ShortName *string `json:"short_name" form:"short_name"`
	ScheduleFields
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:schools"`

	ID         int     `json:"id" bun:"-"`
	Name       *string `json:"name" bun:"name"`
	ShortName  *string `json:"short_name" bun:"short_name"`
	KioskToken string  `json:"kiosk_token" bun:"kiosk_token"`
	ScheduleFields
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID        int     `json:"id" form:"id" validate:"required"`
	Name      *string `json:"name" form:"name"`
	ShortName *string `json:"short_name" form:"short_name"`
	ScheduleFields
}
