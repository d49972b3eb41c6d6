package staff

import (
	"context"

	"schoolsync/backend/internal/entity"
	"schoolsync/backend/internal/repository/postgres/staff"
)

type Staff interface {
	GetById(ctx context.Context, id int) (entity.Staff, error)
	GetList(ctx context.Context, filter staff.Filter) ([]staff.GetListResponse, int, error)
	Create(ctx context.Context, request staff.CreateRequest) (staff.CreateResponse, error)
	UpdateColumns(ctx context.Context, request staff.UpdateRequest) error
	ResetTimesLate(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	GetExportList(ctx context.Context, schoolID int) ([]staff.ExportRow, error)
}
