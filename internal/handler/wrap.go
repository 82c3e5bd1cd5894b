package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/logger"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// Func is a handler body that reports failure by returning an error.
type Func func(c *gin.Context) error

// Wrapper adapts Func values to gin handlers that log every failure and
// answer it with exactly one JSON error response.
type Wrapper struct {
	logger *zap.Logger
}

// NewWrapper constructs a Wrapper.
func NewWrapper(log *zap.Logger) *Wrapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wrapper{logger: log}
}

// Wrap converts fn into a gin.HandlerFunc. Panics are treated as errors.
// Nothing is written when fn already started a response.
func (w *Wrapper) Wrap(fn Func) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := run(c, fn)
		if err == nil {
			return
		}

		appErr := appErrors.FromError(err)
		fields := append(logger.RequestFields(c),
			zap.Int("status", appErr.Status),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		if appErr.Status >= 500 {
			w.logger.Error("request failed", fields...)
		} else {
			w.logger.Warn("request rejected", fields...)
		}

		c.Abort()
		if c.Writer.Written() {
			return
		}
		response.Error(c, appErr)
	}
}

func run(c *gin.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			err = appErrors.Wrap(errors.New(msg), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
		}
	}()
	return fn(c)
}
