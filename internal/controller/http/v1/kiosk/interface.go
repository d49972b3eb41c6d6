package kiosk

import (
	"context"

	"schoolsync/backend/internal/engine"
	"schoolsync/backend/internal/entity"
	"schoolsync/backend/internal/repository/postgres/staff"
)

type Schools interface {
	GetById(ctx context.Context, id int) (entity.School, error)
}

type Staff interface {
	engine.StaffDirectory
	GetRoster(ctx context.Context, schoolID int) ([]staff.RosterItem, error)
}
