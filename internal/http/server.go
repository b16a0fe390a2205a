package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"drive-service/internal/auth"
	"drive-service/internal/config"
	"drive-service/internal/http/handler"
	"drive-service/internal/http/middleware"
	"drive-service/internal/types"
	"drive-service/pkg/metrics"
	"drive-service/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"

	// Multipart framing and the parent_id field on top of the file payloads.
	uploadBodyOverheadKB = 1024
)

type ServerDependencies struct {
	Config         *config.Config
	Uploader       handler.BatchUploader
	Explorers      handler.ExplorerFactory
	AuthMiddleware *auth.Middleware
	AuditLogger    types.AuditLogger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(metrics.MetricsMiddleware())

	requireJWT := deps.AuthMiddleware.RequireJWT()
	apiRateLimiter := middleware.NewGlobalRateLimiter()
	uploadRateLimiter := middleware.NewUploadRateLimiter()

	uploadHandler := handler.NewUploadHandler(deps.Uploader, deps.AuditLogger)
	entryHandler := handler.NewEntryHandler(deps.Explorers, deps.AuditLogger)

	e.GET("/health", healthCheck)
	metrics.RegisterMetricsRoute(e)

	// Authentication runs before the body is read, so a missing session is reported
	// ahead of any form validation.
	e.POST("/upload", uploadHandler.Upload,
		requireJWT,
		uploadRateLimiter.Middleware(),
		echomiddleware.BodyLimit(uploadBodyLimit(&deps.Config.App)),
	)

	api := e.Group("/api", requireJWT, apiRateLimiter.Middleware(), echomiddleware.BodyLimit(requestBodyLimit))

	api.GET("/drive", entryHandler.GetDrive)
	api.GET("/entries", entryHandler.ListEntries)
	api.PATCH("/entries/:id", entryHandler.RenameEntry)
	api.DELETE("/entries/:id", entryHandler.DeleteEntry)
	api.GET("/entries/:id/preview-url", entryHandler.GetPreviewURL)
	api.POST("/folders", entryHandler.CreateFolder)
	api.GET("/folders/:id/breadcrumbs", entryHandler.GetBreadcrumbs)

	if deps.Config.App.ProfilingEnabled {
		profiling.RegisterPprofRoutes(api)
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

// uploadBodyLimit allows a full batch of maximum-size files.
func uploadBodyLimit(app *config.AppConfig) string {
	kb := int64(app.MaxBatchFiles)*app.MaxFileSize/1024 + uploadBodyOverheadKB
	return fmt.Sprintf("%dK", kb)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
