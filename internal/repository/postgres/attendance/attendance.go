package attendance

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

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByStaffDate implements engine.Store. A missing record is (nil, nil),
// not an error.
func (r Repository) GetByStaffDate(ctx context.Context, staffID int, workDay string) (*engine.Record, error) {
	var detail entity.Attendance

	err := r.NewSelect().
		Model(&detail).
		Where("deleted_at IS NULL AND staff_id = ? AND work_day = ?", staffID, workDay).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendance by staff and day")
	}

	rec := engine.Record{
		ID:              detail.ID,
		StaffID:         *detail.StaffID,
		WorkDay:         workDay,
		IsLate:          detail.IsLate,
		LateMinutes:     detail.LateMinutes,
		OvertimeMinutes: detail.OvertimeMinutes,
		LeaveTime:       detail.LeaveTime,
	}
	if detail.ComeTime != nil {
		rec.ComeTime = *detail.ComeTime
	}

	return &rec, nil
}

// CreateSignIn implements engine.Store. The insert and the times_late bump
// run in one transaction; a conflicting row turns into ErrDuplicateRecord so
// racing kiosks degrade to the idempotent no-op.
func (r Repository) CreateSignIn(ctx context.Context, rec engine.Record, bumpLate bool) error {
	return r.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		row := SignInRow{
			StaffID:     rec.StaffID,
			WorkDay:     rec.WorkDay,
			ComeTime:    rec.ComeTime,
			IsLate:      rec.IsLate,
			LateMinutes: rec.LateMinutes,
			CreatedAt:   time.Now(),
		}

		res, err := tx.NewInsert().
			Model(&row).
			On("CONFLICT (staff_id, work_day) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "inserting attendance")
		}

		inserted, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "checking inserted rows")
		}
		if inserted == 0 {
			return engine.ErrDuplicateRecord
		}

		if bumpLate {
			_, err = tx.NewUpdate().
				Table("staff").
				Where("deleted_at IS NULL AND id = ?", rec.StaffID).
				Set("times_late = times_late + 1").
				Exec(ctx)
			if err != nil {
				return errors.Wrap(err, "incrementing times_late")
			}
		}

		return nil
	})
}

// CloseSignOut implements engine.Store.
func (r Repository) CloseSignOut(ctx context.Context, recordID int, leaveTime time.Time, overtimeMinutes int) error {
	q := r.NewUpdate().
		Table("attendance").
		Where("deleted_at IS NULL AND id = ? AND leave_time IS NULL", recordID)
	q.Set("leave_time = ?", leaveTime)
	q.Set("overtime_minutes = ?", overtimeMinutes)
	q.Set("updated_at = ?", time.Now())

	_, err := q.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "closing attendance")
	}

	return nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				a.deleted_at IS NULL
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
	if filter.IsLate != nil {
		whereQuery += fmt.Sprintf(" AND a.is_late = %t", *filter.IsLate)
	}

	if filter.Date != nil {
		day, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return []GetListResponse{}, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", day.Format("2006-01-02"))
	} else {
		today := time.Now().Format("2006-01-02")
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", today)
	}

	orderQuery := "ORDER BY a.created_at desc"

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
			a.id,
			a.staff_id,
			s.external_id,
			s.full_name,
			s.department,
			sc.id,
			sc.name,
			a.work_day,
			a.come_time,
			a.leave_time,
			a.is_late,
			a.late_minutes,
			a.overtime_minutes
	 FROM   attendance as a
		LEFT JOIN staff s ON a.staff_id = s.id
		LEFT JOIN schools sc ON s.school_id = sc.id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var workDayString string

		if err = rows.Scan(
			&detail.ID,
			&detail.StaffID,
			&detail.ExternalID,
			&detail.FullName,
			&detail.Department,
			&detail.SchoolID,
			&detail.School,
			&workDayString,
			&detail.ComeTime,
			&detail.LeaveTime,
			&detail.IsLate,
			&detail.LateMinutes,
			&detail.OvertimeMinutes); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance list"), http.StatusBadRequest)
		}

		workDay, err := parseWorkDay(workDayString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting work_day"), http.StatusBadRequest)
		}
		detail.WorkDay = workDay
		detail.TotalHours = totalHours(detail.ComeTime, detail.LeaveTime)

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM
		    attendance as a
		LEFT JOIN staff s ON a.staff_id = s.id
		LEFT JOIN schools sc ON s.school_id = sc.id
		%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance count"), http.StatusInternalServerError)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance count"), http.StatusInternalServerError)
		}
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.staff_id,
			s.external_id,
			s.full_name,
			s.department,
			sc.id,
			sc.name,
			a.work_day,
			a.come_time,
			a.leave_time,
			a.is_late,
			a.late_minutes,
			a.overtime_minutes
		FROM   attendance as a
		LEFT JOIN staff s ON a.staff_id = s.id
		LEFT JOIN schools sc ON s.school_id = sc.id
		WHERE  a.deleted_at is NULL and a.id = %d
	`, id)

	var detail GetDetailByIdResponse
	var workDayString string

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.StaffID,
		&detail.ExternalID,
		&detail.FullName,
		&detail.Department,
		&detail.SchoolID,
		&detail.School,
		&workDayString,
		&detail.ComeTime,
		&detail.LeaveTime,
		&detail.IsLate,
		&detail.LateMinutes,
		&detail.OvertimeMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance detail"), http.StatusInternalServerError)
	}

	workDay, err := parseWorkDay(workDayString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting work_day"), http.StatusBadRequest)
	}
	detail.WorkDay = workDay
	detail.TotalHours = totalHours(detail.ComeTime, detail.LeaveTime)

	return detail, nil
}

// GetMonthly returns the per staff summary for one school and month, feeding
// the PDF report.
func (r Repository) GetMonthly(ctx context.Context, schoolID int, month time.Time) ([]MonthlySummary, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT
			s.external_id,
			s.full_name,
			s.department,
			COUNT(a.id) AS days_present,
			COUNT(CASE WHEN a.is_late THEN 1 END) AS days_late,
			COALESCE(SUM(a.late_minutes), 0) AS late_minutes,
			COALESCE(SUM(a.overtime_minutes), 0) AS overtime_minutes
		FROM staff s
		LEFT JOIN attendance a
			ON a.staff_id = s.id
			AND a.deleted_at IS NULL
			AND a.work_day >= $2 AND a.work_day < $3
		WHERE s.deleted_at IS NULL AND s.school_id = $1
		GROUP BY s.external_id, s.full_name, s.department
		ORDER BY s.full_name
	`

	rows, err := r.QueryContext(ctx, query, schoolID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting monthly summary"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []MonthlySummary
	for rows.Next() {
		var s MonthlySummary
		if err = rows.Scan(
			&s.ExternalID,
			&s.FullName,
			&s.Department,
			&s.DaysPresent,
			&s.DaysLate,
			&s.LateMinutes,
			&s.OvertimeMinutes); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning monthly summary"), http.StatusInternalServerError)
		}
		list = append(list, s)
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading monthly summary"), http.StatusInternalServerError)
	}

	return list, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "attendance", id)
}

func parseWorkDay(s string) (*date.Date, error) {
	// pgdriver returns dates either bare or with a zero time component.
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05Z", time.RFC3339} {
		if day, err := time.Parse(layout, s); err == nil {
			return &date.Date{Time: day}, nil
		}
	}
	return nil, errors.Errorf("unrecognized work_day %q", s)
}

func totalHours(come, leave *time.Time) string {
	if come == nil || leave == nil {
		return ""
	}

	diff := leave.Sub(*come)
	if diff < 0 {
		return ""
	}

	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60

	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
