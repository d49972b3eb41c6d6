package staff

import (
	"fmt"
	"net/http"
	"os"
	"reflect"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/repository/postgres/staff"
	"schoolsync/backend/internal/service"
)

type Controller struct {
	staff Staff
}

func NewController(staff Staff) *Controller {
	return &Controller{staff}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter staff.Filter

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
	if active, ok := c.GetQueryFunc(reflect.Bool, "active").(*bool); ok {
		filter.Active = active
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.staff.GetList(c.Ctx, filter)
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

	response, err := uc.staff.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request staff.CreateRequest

	if err := c.BindFunc(&request, "SchoolID", "ExternalID", "FullName", "Department"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.staff.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request staff.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.staff.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// ResetTimesLate zeroes the accumulated lateness counter, typically at the
// start of a new term.
func (uc Controller) ResetTimesLate(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.staff.ResetTimesLate(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ExportExcel(c *web.Context) error {
	schoolID := c.GetParam(reflect.Int, "school_id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	rows, err := uc.staff.GetExportList(c.Ctx, schoolID)
	if err != nil {
		return c.RespondError(err)
	}

	fileName := fmt.Sprintf("staff_%d_%d.xlsx", schoolID, time.Now().Unix())
	if err := service.BuildRosterExcel(rows, fileName); err != nil {
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

	err := uc.staff.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
