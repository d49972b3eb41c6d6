package school

import (
	"context"

	"schoolsync/backend/internal/entity"
	"schoolsync/backend/internal/repository/postgres/school"
)

type School interface {
	GetById(ctx context.Context, id int) (entity.School, error)
	GetList(ctx context.Context, filter school.Filter) ([]school.GetListResponse, int, error)
	Create(ctx context.Context, request school.CreateRequest) (school.CreateResponse, error)
	UpdateColumns(ctx context.Context, request school.UpdateRequest) error
	RotateToken(ctx context.Context, id int) (oldToken, newToken string, err error)
	Delete(ctx context.Context, id int) error
}
