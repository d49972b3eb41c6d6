package entity

import (
	"github.com/uptrace/bun"
)

// School is a tenant organization with its own staff roster, weekly work
// schedule and kiosk token. Schedule times are stored as "HH:MM" strings,
// one start/end pair per weekday; Saturday and Sunday have no schedule.
type School struct {
	bun.BaseModel `bun:"table:schools"`

	BasicEntity
	Name       *string `json:"name" bun:"name"`
	ShortName  *string `json:"short_name" bun:"short_name"`
	KioskToken *string `json:"-" bun:"kiosk_token"`

	MonStart *string `json:"mon_start" bun:"mon_start"`
	MonEnd   *string `json:"mon_end" bun:"mon_end"`
	TueStart *string `json:"tue_start" bun:"tue_start"`
	TueEnd   *string `json:"tue_end" bun:"tue_end"`
	WedStart *string `json:"wed_start" bun:"wed_start"`
	WedEnd   *string `json:"wed_end" bun:"wed_end"`
	ThuStart *string `json:"thu_start" bun:"thu_start"`
	ThuEnd   *string `json:"thu_end" bun:"thu_end"`
	FriStart *string `json:"fri_start" bun:"fri_start"`
	FriEnd   *string `json:"fri_end" bun:"fri_end"`
}
