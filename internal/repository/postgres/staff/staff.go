package staff

import (
	"context"
	"database/sql"
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

// ResolveExternalID implements engine.StaffDirectory. Deactivated staff
// still resolve: their history stays meaningful and kiosks may hold stale
// rosters.
func (r Repository) ResolveExternalID(ctx context.Context, schoolID int, externalID string) (engine.StaffRef, error) {
	var detail entity.Staff

	err := r.NewSelect().
		Model(&detail).
		Where("deleted_at IS NULL AND school_id = ? AND external_id = ?", schoolID, externalID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.StaffRef{}, engine.ErrStaffNotFound
	}
	if err != nil {
		return engine.StaffRef{}, errors.Wrap(err, "selecting staff by external id")
	}

	ref := engine.StaffRef{ID: detail.ID, ExternalID: externalID}
	if detail.FullName != nil {
		ref.Name = *detail.FullName
	}
	if detail.Department != nil {
		ref.Department = *detail.Department
	}

	return ref, nil
}

// GetRoster returns the active staff of a school for the kiosk get_staff
// action.
func (r Repository) GetRoster(ctx context.Context, schoolID int) ([]RosterItem, error) {
	query := `
		SELECT
			external_id,
			full_name,
			department
		FROM staff
		WHERE deleted_at IS NULL AND active = true AND school_id = $1
		ORDER BY full_name
	`

	rows, err := r.QueryContext(ctx, query, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting roster")
	}
	defer rows.Close()

	list := []RosterItem{}
	for rows.Next() {
		var item RosterItem
		if err = rows.Scan(&item.ID, &item.Name, &item.Department); err != nil {
			return nil, errors.Wrap(err, "scanning roster")
		}
		list = append(list, item)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading roster")
	}

	return list, nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Staff, error) {
	var detail entity.Staff

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND id = ?", id).Scan(ctx)

	return detail, err
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				s.deleted_at IS NULL
			`
	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
		(s.external_id ilike '%s' OR s.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.SchoolID != nil {
		whereQuery += fmt.Sprintf(` AND s.school_id = %d`, *filter.SchoolID)
	}
	if filter.Department != nil {
		department := strings.Replace(*filter.Department, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND s.department = '%s'`, department)
	}
	if filter.Active != nil {
		whereQuery += fmt.Sprintf(` AND s.active = %t`, *filter.Active)
	}

	orderQuery := "ORDER BY s.created_at desc"

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
			s.id,
			s.external_id,
			s.full_name,
			s.department,
			s.active,
			s.times_late,
			sc.id,
			sc.name
		FROM staff s
		LEFT JOIN schools sc ON s.school_id = sc.id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting staff"), http.StatusInternalServerError)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.ExternalID,
			&detail.FullName,
			&detail.Department,
			&detail.Active,
			&detail.TimesLate,
			&detail.SchoolID,
			&detail.School); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning staff list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(s.id)
		FROM staff s
			%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting staff count"), http.StatusInternalServerError)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning staff count"), http.StatusInternalServerError)
		}
	}

	return list, count, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "SchoolID", "ExternalID", "FullName", "Department"); err != nil {
		return CreateResponse{}, err
	}

	if !validDepartment(*request.Department) {
		return CreateResponse{}, web.NewRequestError(errors.Errorf("unknown department %q", *request.Department), http.StatusBadRequest)
	}

	active := true
	if request.Active != nil {
		active = *request.Active
	}

	response := CreateResponse{
		SchoolID:   request.SchoolID,
		ExternalID: request.ExternalID,
		FullName:   request.FullName,
		Department: request.Department,
		Active:     active,
		CreatedAt:  time.Now(),
		CreatedBy:  claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating staff"), http.StatusBadRequest)
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

	q := r.NewUpdate().Table("staff").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.ExternalID != nil {
		q.Set("external_id = ?", *request.ExternalID)
	}
	if request.FullName != nil {
		q.Set("full_name = ?", *request.FullName)
	}
	if request.Department != nil {
		if !validDepartment(*request.Department) {
			return web.NewRequestError(errors.Errorf("unknown department %q", *request.Department), http.StatusBadRequest)
		}
		q.Set("department = ?", *request.Department)
	}
	if request.Active != nil {
		q.Set("active = ?", *request.Active)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating staff"), http.StatusBadRequest)
	}

	return nil
}

// ResetTimesLate zeroes the cumulative lateness counter. This is the only
// way it decreases.
func (r Repository) ResetTimesLate(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := r.NewUpdate().Table("staff").Where("deleted_at IS NULL AND id = ?", id)
	q.Set("times_late = 0")
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "resetting times_late"), http.StatusBadRequest)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking affected rows"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "staff", id)
}

// GetExportList feeds the excel roster export.
func (r Repository) GetExportList(ctx context.Context, schoolID int) ([]ExportRow, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			s.external_id,
			s.full_name,
			s.department,
			s.active,
			s.times_late,
			sc.name
		FROM staff s
		LEFT JOIN schools sc ON s.school_id = sc.id
		WHERE s.deleted_at IS NULL AND s.school_id = $1
		ORDER BY s.full_name
	`

	rows, err := r.QueryContext(ctx, query, schoolID)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting staff export"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []ExportRow
	for rows.Next() {
		var row ExportRow
		if err = rows.Scan(
			&row.ExternalID,
			&row.FullName,
			&row.Department,
			&row.Active,
			&row.TimesLate,
			&row.School); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning staff export"), http.StatusInternalServerError)
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading staff export"), http.StatusInternalServerError)
	}

	return list, nil
}

func validDepartment(d string) bool {
	switch d {
	case entity.DepartmentAcademic, entity.DepartmentAdmin, entity.DepartmentNonAcademic, entity.DepartmentManagement:
		return true
	}
	return false
}
