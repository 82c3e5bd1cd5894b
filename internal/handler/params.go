package handler

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrInvalidInput, "invalid "+resource+" id")
	}
	return id, nil
}

// query returns the first value of a possibly repeated query key, trimmed.
func query(c *gin.Context, key string) string {
	values := c.QueryArray(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// window resolves page and limit from the query string.
func window(c *gin.Context, opts pagination.Options) pagination.Window {
	return pagination.Parse(c.QueryArray("page"), c.QueryArray("limit"), opts)
}

// bindJSON decodes the body or reports a validation error. Type mismatches
// on a known field are reported against that field.
func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return appErrors.Validation("invalid request body", map[string][]string{
				typeErr.Field: {typeMessage(typeErr.Type)},
			})
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	return nil
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "has an invalid type"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	default:
		return "has an invalid type"
	}
}
