package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/config"
	"github.com/noah-isme/classroom-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classroom-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Departments *handler.DepartmentHandler
	Subjects    *handler.SubjectHandler
	Classes     *handler.ClassHandler
	Users       *handler.UserHandler
	Enrollments *handler.EnrollmentHandler
	Metrics     *handler.MetricsHandler
}

type tokenVerifier interface {
	Verify(token string) (*models.SessionClaims, error)
}

type rateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Dependencies carries the cross-cutting collaborators of the middleware chain.
// RateCounter may be nil when rate limiting is disabled.
type Dependencies struct {
	Verifier    tokenVerifier
	RateCounter rateCounter
	Metrics     *service.MetricsService
	Logger      *zap.Logger
}

// Setup builds the gin engine with every route registered.
func Setup(cfg *config.Config, h Handlers, deps Dependencies) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(corsmiddleware.New(cfg.CORS.FrontendURL))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.OptionalJWT(deps.Verifier))
	r.NoRoute(notFound)

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// routes registered above stay outside the limiter
	if cfg.RateLimit.Enabled && deps.RateCounter != nil {
		r.Use(middleware.RateLimit(deps.RateCounter, cfg.RateLimit.Window, deps.Metrics, log))
	}

	proxy, err := authProxy(cfg.Auth.BaseURL, log)
	if err != nil {
		return nil, err
	}

	w := handler.NewWrapper(log)
	api := r.Group(cfg.APIPrefix)
	{
		api.Any("/auth/*path", proxy)

		departments := api.Group("/departments")
		{
			departments.GET("", w.Wrap(h.Departments.List))
			departments.POST("", w.Wrap(h.Departments.Create))
			departments.GET("/:id", w.Wrap(h.Departments.Get))
			departments.GET("/:id/subjects", w.Wrap(h.Departments.Subjects))
			departments.GET("/:id/classes", w.Wrap(h.Departments.Classes))
			departments.GET("/:id/users", w.Wrap(h.Departments.Users))
		}

		subjects := api.Group("/subjects")
		{
			subjects.GET("", w.Wrap(h.Subjects.List))
			subjects.POST("", w.Wrap(h.Subjects.Create))
			subjects.GET("/:id", w.Wrap(h.Subjects.Get))
		}

		classes := api.Group("/classes")
		{
			classes.GET("", w.Wrap(h.Classes.List))
			classes.POST("", w.Wrap(h.Classes.Create))
			classes.GET("/:id", w.Wrap(h.Classes.Get))
			classes.GET("/:id/users", w.Wrap(h.Classes.Users))
			classes.GET("/:id/users/export", w.Wrap(h.Classes.ExportUsers))
		}

		users := api.Group("/users")
		{
			users.GET("", w.Wrap(h.Users.List))
			users.GET("/:id", w.Wrap(h.Users.Get))
			users.GET("/:id/departments", w.Wrap(h.Users.Departments))
			users.GET("/:id/subjects", w.Wrap(h.Users.Subjects))
		}

		enrollments := api.Group("/enrollments")
		enrollments.Use(middleware.JWT(deps.Verifier))
		{
			enrollments.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), w.Wrap(h.Enrollments.Create))
			enrollments.POST("/join", w.Wrap(h.Enrollments.Join))
		}
	}

	return r, nil
}
