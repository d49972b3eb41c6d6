package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Context carries the request scoped values handlers need: the gin context,
// a context.Context claims can be attached to and parse errors collected
// while reading params and query values.
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []string
	queryErrs []string
}

// NewContext constructs a Context from a gin context.
func NewContext(gc *gin.Context) *Context {
	return &Context{
		Context: gc,
		Ctx:     gc.Request.Context(),
	}
}

// BindFunc binds the request body into data and checks that the named struct
// fields were actually provided.
func (c *Context) BindFunc(data interface{}, required ...string) error {
	if err := c.ShouldBind(data); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	if len(required) > 0 {
		fields := strings.Join(required, ",")
		if err := validate.StructPartial(data, strings.Split(fields, ",")...); err != nil {
			return NewRequestError(errors.Wrap(err, "required fields"), http.StatusBadRequest)
		}
	}

	return nil
}

// GetParam reads a path parameter and converts it to the requested kind. A
// conversion failure is collected and surfaced by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, fmt.Sprintf("param %q must be an integer", name))
			return 0
		}
		return v
	case reflect.String:
		return value
	default:
		c.paramErrs = append(c.paramErrs, fmt.Sprintf("param %q has unsupported kind", name))
		return nil
	}
}

// ValidParam reports any path parameter conversion failures collected by
// GetParam.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New(strings.Join(c.paramErrs, "; ")), http.StatusBadRequest)
}

// GetQueryFunc reads an optional query value and converts it to a pointer of
// the requested kind. Missing values yield a typed nil so callers can use a
// comma ok type assertion.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("query %q must be an integer", name))
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("query %q must be a boolean", name))
			return (*bool)(nil)
		}
		return &v
	case reflect.String:
		if !ok {
			return (*string)(nil)
		}
		return &value
	default:
		c.queryErrs = append(c.queryErrs, fmt.Sprintf("query %q has unsupported kind", name))
		return nil
	}
}

// ValidQuery reports any query conversion failures collected by GetQueryFunc.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New(strings.Join(c.queryErrs, "; ")), http.StatusBadRequest)
}

// Respond writes data as the JSON response with the given status code.
func (c *Context) Respond(data interface{}, status int) error {
	c.JSON(status, data)
	return nil
}

// RespondError translates an application error into a JSON error response.
// Trusted *Error values keep their status and message, everything else is a
// 500 with a generic message.
func (c *Context) RespondError(err error) error {
	if webErr := GetRequestError(err); webErr != nil {
		c.JSON(webErr.Status, map[string]interface{}{
			"error":  webErr.Err.Error(),
			"fields": webErr.Fields,
			"status": false,
		})
		return nil
	}

	c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":  "internal server error",
		"status": false,
	})
	return nil
}
