package kiosk

import (
	"net/http"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/auth"
	"schoolsync/backend/internal/engine"
	"schoolsync/backend/internal/repository/postgres/school"

	"github.com/pkg/errors"
)

// Kiosk request actions.
const (
	ActionSyncAttendance = "sync_attendance"
	ActionCheckStatus    = "check_status"
	ActionGetStaff       = "get_staff"
)

type Request struct {
	Action  string            `json:"action" form:"action" validate:"required"`
	Records []engine.RawEvent `json:"records"`
	StaffID string            `json:"staff_id"`
}

// Controller serves the device API kiosks talk to. Every request is
// authenticated as one school by the kiosk middleware; dispatch is on the
// action field.
type Controller struct {
	schools      Schools
	staff        Staff
	orchestrator *engine.Orchestrator
	store        engine.Store
}

func NewController(schools Schools, staff Staff, store engine.Store) *Controller {
	return &Controller{
		schools:      schools,
		staff:        staff,
		orchestrator: engine.NewOrchestrator(staff, store),
		store:        store,
	}
}

func (uc Controller) Handle(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.SchoolKey).(auth.SchoolClaims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("school missing from context"), http.StatusUnauthorized))
	}

	var request Request
	if err := c.BindFunc(&request, "Action"); err != nil {
		return c.RespondError(err)
	}

	switch request.Action {
	case ActionSyncAttendance:
		return uc.syncAttendance(c, claims.SchoolID, request)
	case ActionCheckStatus:
		return uc.checkStatus(c, claims.SchoolID, request)
	case ActionGetStaff:
		return uc.getStaff(c, claims.SchoolID)
	default:
		return c.RespondError(web.NewRequestError(errors.Errorf("unknown action %q", request.Action), http.StatusBadRequest))
	}
}

func (uc Controller) syncAttendance(c *web.Context, schoolID int, request Request) error {
	detail, err := uc.schools.GetById(c.Ctx, schoolID)
	if err != nil {
		return c.RespondError(err)
	}

	sched, err := school.WeeklySchedule(detail)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "school schedule is invalid"), http.StatusInternalServerError))
	}

	result := uc.orchestrator.Sync(c.Ctx, engine.Tenant{ID: schoolID, Schedule: sched}, request.Records)

	return c.Respond(map[string]interface{}{
		"success": true,
		"synced":  result.Synced,
		"errors":  result.Errors,
	}, http.StatusOK)
}

func (uc Controller) checkStatus(c *web.Context, schoolID int, request Request) error {
	if request.StaffID == "" {
		return c.RespondError(web.NewRequestError(errors.New("staff_id is required"), http.StatusBadRequest))
	}

	ref, err := uc.staff.ResolveExternalID(c.Ctx, schoolID, request.StaffID)
	if err != nil {
		if errors.Is(err, engine.ErrStaffNotFound) {
			return c.RespondError(web.NewRequestError(errors.Errorf("staff id %q not found", request.StaffID), http.StatusNotFound))
		}
		return c.RespondError(err)
	}

	status, err := engine.CheckStatus(c.Ctx, uc.store, ref.ID, time.Now().Format("2006-01-02"))
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"staff_name": ref.Name,
		"status":     status,
	}, http.StatusOK)
}

func (uc Controller) getStaff(c *web.Context, schoolID int) error {
	list, err := uc.staff.GetRoster(c.Ctx, schoolID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"success": true,
		"staff":   list,
	}, http.StatusOK)
}
