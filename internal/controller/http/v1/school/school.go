package school

import (
	"net/http"
	"reflect"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/middleware"
	"schoolsync/backend/internal/repository/postgres/school"
	"schoolsync/backend/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/pkg/errors"
)

var errNoToken = errors.New("school has no kiosk token")

type Controller struct {
	school  School
	redisDB *redis.Client
}

func NewController(school School, redisDB *redis.Client) *Controller {
	return &Controller{school, redisDB}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter school.Filter

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

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.school.GetList(c.Ctx, filter)
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

	response, err := uc.school.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request school.CreateRequest

	if err := c.BindFunc(&request, "Name"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.school.Create(c.Ctx, request)
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

	var request school.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.school.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// RotateToken issues a fresh kiosk token and drops the old one from the
// auth cache so devices holding it are cut off immediately.
func (uc Controller) RotateToken(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	oldToken, newToken, err := uc.school.RotateToken(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	if oldToken != "" {
		uc.redisDB.Del(c.Ctx, middleware.KioskTokenCacheKey(oldToken))
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]string{
			"kiosk_token": newToken,
		},
		"status": true,
	}, http.StatusOK)
}

// KioskTokenQR renders the school's current kiosk token as a PNG QR code
// for pairing a device.
func (uc Controller) KioskTokenQR(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.school.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	if detail.KioskToken == nil || *detail.KioskToken == "" {
		return c.RespondError(web.NewRequestError(errNoToken, http.StatusNotFound))
	}

	png, err := service.KioskTokenQR(*detail.KioskToken)
	if err != nil {
		return c.RespondError(err)
	}

	c.Data(http.StatusOK, "image/png", png)
	return nil
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.school.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
