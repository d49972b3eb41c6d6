package attendance

import (
	"context"
	"time"

	"schoolsync/backend/internal/entity"
	"schoolsync/backend/internal/repository/postgres/attendance"
)

type Attendance interface {
	GetList(ctx context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (attendance.GetDetailByIdResponse, error)
	GetMonthly(ctx context.Context, schoolID int, month time.Time) ([]attendance.MonthlySummary, error)
	Delete(ctx context.Context, id int) error
}

type Schools interface {
	GetById(ctx context.Context, id int) (entity.School, error)
}
