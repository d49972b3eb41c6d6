package school

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/engine"
	"schoolsync/backend/internal/entity"
	"schoolsync/backend/internal/pkg/repository/postgresql"
	"schoolsync/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.School, error) {
	var detail entity.School

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.School{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return detail, err
}

// GetByToken resolves a kiosk token to its school. Rotated tokens stop
// resolving the moment the row is updated.
func (r Repository) GetByToken(ctx context.Context, token string) (entity.School, error) {
	var detail entity.School

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND kiosk_token = ?", token).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.School{}, web.NewRequestError(errors.New("unknown kiosk token"), http.StatusUnauthorized)
	}
	if err != nil {
		return entity.School{}, errors.Wrap(err, "selecting school by token")
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				deleted_at IS NULL
			`
	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
				(name ILIKE '%s' OR short_name ILIKE '%s')`, "%"+search+"%", "%"+search+"%")
	}
	orderQuery := "ORDER BY created_at desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			name,
			short_name
		FROM schools

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting schools"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Name,
			&detail.ShortName); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning school list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(id)
		FROM schools
			%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting school count"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning school count"), http.StatusBadRequest)
		}
	}

	return list, count, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Name"); err != nil {
		return CreateResponse{}, err
	}

	if err := validateScheduleFields(request.ScheduleFields); err != nil {
		return CreateResponse{}, err
	}

	token, err := newKioskToken()
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "generating kiosk token"), http.StatusInternalServerError)
	}

	response := CreateResponse{
		Name:           request.Name,
		ShortName:      request.ShortName,
		KioskToken:     token,
		ScheduleFields: request.ScheduleFields,
		CreatedAt:      time.Now(),
		CreatedBy:      claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating school"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	if err := validateScheduleFields(request.ScheduleFields); err != nil {
		return err
	}

	q := r.NewUpdate().Table("schools").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", *request.Name)
	}
	if request.ShortName != nil {
		q.Set("short_name = ?", *request.ShortName)
	}
	for column, value := range request.ScheduleFields.columns() {
		if value != nil {
			q.Set(column+" = ?", *value)
		}
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating school"), http.StatusBadRequest)
	}

	return nil
}

// RotateToken replaces a school's kiosk token. The old token is returned so
// the caller can drop it from the auth cache; it stops working immediately.
func (r Repository) RotateToken(ctx context.Context, id int) (oldToken, newToken string, err error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return "", "", err
	}

	detail, err := r.GetById(ctx, id)
	if err != nil {
		return "", "", err
	}
	if detail.KioskToken != nil {
		oldToken = *detail.KioskToken
	}

	newToken, err = newKioskToken()
	if err != nil {
		return "", "", web.NewRequestError(errors.Wrap(err, "generating kiosk token"), http.StatusInternalServerError)
	}

	q := r.NewUpdate().Table("schools").Where("deleted_at IS NULL AND id = ?", id)
	q.Set("kiosk_token = ?", newToken)
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err = q.Exec(ctx); err != nil {
		return "", "", web.NewRequestError(errors.Wrap(err, "rotating kiosk token"), http.StatusBadRequest)
	}

	return oldToken, newToken, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "schools", id)
}

// WeeklySchedule converts a school row into the engine's schedule form.
func WeeklySchedule(s entity.School) (engine.WeeklySchedule, error) {
	var sched engine.WeeklySchedule

	days := [5][2]*string{
		{s.MonStart, s.MonEnd},
		{s.TueStart, s.TueEnd},
		{s.WedStart, s.WedEnd},
		{s.ThuStart, s.ThuEnd},
		{s.FriStart, s.FriEnd},
	}

	for i, day := range days {
		start, end := day[0], day[1]
		if start == nil || end == nil || *start == "" || *end == "" {
			continue
		}

		startTod, err := engine.ParseTimeOfDay(*start)
		if err != nil {
			return engine.WeeklySchedule{}, errors.Wrapf(err, "weekday %d start", i)
		}
		endTod, err := engine.ParseTimeOfDay(*end)
		if err != nil {
			return engine.WeeklySchedule{}, errors.Wrapf(err, "weekday %d end", i)
		}

		sched[i] = &engine.DaySchedule{Start: startTod, End: endTod}
	}

	return sched, nil
}

func newKioskToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func validateScheduleFields(s ScheduleFields) error {
	for column, value := range s.columns() {
		if value == nil || *value == "" {
			continue
		}
		if _, err := engine.ParseTimeOfDay(*value); err != nil {
			return web.NewRequestError(errors.Errorf("invalid %s value %q, expected HH:MM", column, *value), http.StatusBadRequest)
		}
	}
	return nil
}
