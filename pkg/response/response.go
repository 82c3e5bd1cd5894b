package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// Envelope represents the success response contract.
type Envelope struct {
	Data       interface{}      `json:"data"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// ErrorEnvelope represents the failure response contract.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Created wraps the identifier of a newly inserted row.
type Created struct {
	ID interface{} `json:"id"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, meta *pagination.Meta) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Data: data, Pagination: meta})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, nil)
}

// Page responds with HTTP 200 and a pagination block.
func Page(c *gin.Context, data interface{}, meta pagination.Meta) {
	JSON(c, http.StatusOK, data, &meta)
}

// CreatedID responds with HTTP 201 and the new row identifier.
func CreatedID(c *gin.Context, id interface{}) {
	JSON(c, http.StatusCreated, Created{ID: id}, nil)
}

// Error sends an error response converting the error to the common structure.
// Server errors carry the wrapped cause in the message.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		message = appErr.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorEnvelope{
		Success: false,
		Code:    appErr.Code,
		Message: message,
		Errors:  appErr.Fields,
	})
}
