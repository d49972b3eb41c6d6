package auth

import (
	"context"

	"schoolsync/backend/internal/entity"
)

type User interface {
	GetByLogin(ctx context.Context, login string) (entity.User, error)
}
