package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

func TestWrapRendersTypedError(t *testing.T) {
	w, env := serve(t, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) error {
		return appErrors.Clone(appErrors.ErrConflict, "already enrolled")
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, "already enrolled", env.Message)
}

func TestWrapUnknownErrorKeepsMessage(t *testing.T) {
	w, env := serve(t, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) error {
		return errors.New("connection refused")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "connection refused", env.Message)
}

func TestWrapRecoversPanic(t *testing.T) {
	w, env := serve(t, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) error {
		panic("boom")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", env.Code)
	assert.Equal(t, "boom", env.Message)
}

func TestWrapDoesNotWriteTwice(t *testing.T) {
	w, _ := serve(t, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) error {
		c.String(http.StatusAccepted, "partial")
		return errors.New("late failure")
	})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestWrapSuccessPassesThrough(t *testing.T) {
	w, _ := serve(t, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) error {
		c.Status(http.StatusNoContent)
		return nil
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
}
