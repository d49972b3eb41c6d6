// Package postgresql owns the bun database handle shared by all repositories
// together with the helpers every repository needs: claims lookup, struct
// validation and soft deletes.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/auth"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Database struct {
	*bun.DB
	validator *validator.Validate
}

// Config holds what is required to open a database handle.
type Config struct {
	Username   string
	Password   string
	Host       string
	Port       string
	Name       string
	DisableTLS bool
}

// New opens a bun database over pgdriver.
func New(cfg Config) *Database {
	sslMode := "require"
	if cfg.DisableTLS {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Name, sslMode)

	sqldb := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	db := bun.NewDB(sql.OpenDB(sqldb), pgdialect.New())

	if os.Getenv("DEBUG") != "" {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	return &Database{
		DB:        db,
		validator: validator.New(),
	}
}

// CheckClaims retrieves the authenticated user claims attached to the context
// by the auth middleware.
func (d Database) CheckClaims(ctx context.Context) (auth.Claims, error) {
	claims, ok := ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	return claims, nil
}

// CheckSchool retrieves the kiosk school claims attached to the context by
// the kiosk auth middleware.
func (d Database) CheckSchool(ctx context.Context) (auth.SchoolClaims, error) {
	claims, ok := ctx.Value(auth.SchoolKey).(auth.SchoolClaims)
	if !ok {
		return auth.SchoolClaims{}, web.NewRequestError(errors.New("school missing from context"), http.StatusUnauthorized)
	}

	return claims, nil
}

// ValidateStruct checks the named fields of data against their validate tags,
// or the whole struct when no fields are given.
func (d Database) ValidateStruct(data interface{}, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = d.validator.StructPartial(data, fields...)
	} else {
		err = d.validator.Struct(data)
	}
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return web.NewRequestError(errors.Wrap(err, "validating struct"), http.StatusBadRequest)
	}

	details := make(map[string]string, len(verrs))
	for _, verr := range verrs {
		details[strings.ToLower(verr.Field())] = fmt.Sprintf("failed on the %q rule", verr.Tag())
	}

	return &web.Error{
		Err:    errors.New("field validation failed"),
		Status: http.StatusBadRequest,
		Fields: details,
	}
}

// DeleteRow soft deletes a row by id, stamping who deleted it.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := d.NewUpdate().Table(table).Where("deleted_at IS NULL AND id = ?", id)
	q.Set("deleted_at = ?", time.Now())
	q.Set("deleted_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusBadRequest)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking affected rows"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(errors.Errorf("%s with id %d not found", table, id), http.StatusNotFound)
	}

	return nil
}
