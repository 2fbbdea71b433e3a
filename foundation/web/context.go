package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Context wraps the gin context. Ctx is the request-scoped context that
// carries deadlines and the authenticated claims.
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []error
	queryErrs []error
}

// GetParam reads a typed path parameter. Parse failures are collected and
// reported by ValidParam so handlers can read several values first.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, fmt.Errorf("parsing param %q: expected int", name))
			return 0
		}
		return v
	case reflect.String:
		return value
	default:
		c.paramErrs = append(c.paramErrs, fmt.Errorf("unsupported param kind for %q", name))
		return nil
	}
}

func (c *Context) ValidParam() error {
	if len(c.paramErrs) > 0 {
		return NewRequestError(c.paramErrs[0], http.StatusBadRequest)
	}
	return nil
}

// GetQueryFunc reads an optional typed query parameter. A missing parameter
// yields a typed nil pointer, so the `value.(*int)` assertion in handlers
// succeeds either way.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Errorf("parsing query %q: expected int", name))
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Errorf("parsing query %q: expected bool", name))
			return (*bool)(nil)
		}
		return &v
	case reflect.String:
		if !ok {
			return (*string)(nil)
		}
		return &value
	default:
		c.queryErrs = append(c.queryErrs, fmt.Errorf("unsupported query kind for %q", name))
		return nil
	}
}

func (c *Context) ValidQuery() error {
	if len(c.queryErrs) > 0 {
		return NewRequestError(c.queryErrs[0], http.StatusBadRequest)
	}
	return nil
}

// BindFunc decodes the request body (json or form) into obj and verifies
// the named required fields are present.
func (c *Context) BindFunc(obj interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(obj); err != nil {
		return NewRequestError(fmt.Errorf("parsing request body: %v", err), http.StatusBadRequest)
	}

	return ValidateStruct(obj, requiredFields...)
}

// ValidateStruct checks that the named pointer fields of s are set. It
// reports every missing field at once.
func ValidateStruct(s interface{}, requiredFields ...string) error {
	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return NewRequestError(errors.New("validate: expected a struct"), http.StatusInternalServerError)
	}

	fields := map[string]string{}
	for _, name := range requiredFields {
		f := v.FieldByName(name)
		if !f.IsValid() {
			continue
		}
		if f.Kind() == reflect.Ptr && f.IsNil() {
			fields[name] = "required field"
		}
	}

	if len(fields) > 0 {
		return &Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// Respond writes data as json with the given status.
func (c *Context) Respond(data interface{}, status int) error {
	c.JSON(status, data)
	return nil
}

// RespondError writes the error payload. Unknown errors become a 500 so
// internals never leak a stack into the client.
func (c *Context) RespondError(err error) error {
	status := http.StatusInternalServerError
	message := err.Error()
	var fields map[string]string

	var webErr *Error
	if errors.As(err, &webErr) {
		status = webErr.Status
		message = webErr.Err.Error()
		fields = webErr.Fields
	}

	body := gin.H{
		"message": message,
		"status":  false,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}

	c.JSON(status, body)
	return nil
}
