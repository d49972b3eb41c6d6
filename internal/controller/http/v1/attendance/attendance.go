package attendance

import (
	"fmt"
	"net/http"
	"os"
	"reflect"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/repository/postgres/attendance"
	"schoolsync/backend/internal/service"

	"github.com/pkg/errors"
)

type Controller struct {
	attendance Attendance
	schools    Schools
}

func NewController(attendance Attendance, schools Schools) *Controller {
	return &Controller{attendance, schools}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter attendance.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if schoolID, ok := c.GetQueryFunc(reflect.Int, "school_id").(*int); ok {
		filter.SchoolID = schoolID
	}
	if department, ok := c.GetQueryFunc(reflect.String, "department").(*string); ok {
		filter.Department = department
	}
	if isLate, ok := c.GetQueryFunc(reflect.Bool, "is_late").(*bool); ok {
		filter.IsLate = isLate
	}
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// MonthlyReport renders one school's attendance summary for a month as a
// PDF. The month query has the form 2006-01.
func (uc Controller) MonthlyReport(c *web.Context) error {
	schoolID := c.GetParam(reflect.Int, "school_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	monthQuery, ok := c.GetQueryFunc(reflect.String, "month").(*string)
	if !ok || monthQuery == nil {
		return c.RespondError(web.NewRequestError(errors.New("month query is required"), http.StatusBadRequest))
	}

	month, err := time.Parse("2006-01", *monthQuery)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Errorf("invalid month %q, expected YYYY-MM", *monthQuery), http.StatusBadRequest))
	}

	detail, err := uc.schools.GetById(c.Ctx, schoolID)
	if err != nil {
		return c.RespondError(err)
	}

	rows, err := uc.attendance.GetMonthly(c.Ctx, schoolID, month)
	if err != nil {
		return c.RespondError(err)
	}

	schoolName := ""
	if detail.Name != nil {
		schoolName = *detail.Name
	}

	fileName := fmt.Sprintf("attendance_%d_%s.pdf", schoolID, month.Format("2006_01"))
	if err := service.BuildMonthlyReportPDF(schoolName, month, rows, fileName); err != nil {
		return c.RespondError(err)
	}
	defer os.Remove(fileName)

	c.File(fileName)
	return nil
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.attendance.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
