package http

import (
	"context"
	"fmt"
	"log/slog"
	stdhttp "net/http"

	"content-dashboard/internal/audit"
	"content-dashboard/internal/config"
	"content-dashboard/internal/dashboard"
	"content-dashboard/internal/http/handler"
	"content-dashboard/internal/http/middleware"
	"content-dashboard/pkg/metrics"
	"content-dashboard/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
)

type ServerDependencies struct {
	Config          *config.Config
	Authenticator   handler.Authenticator
	Queries         handler.FolderQueries
	Breadcrumbs     handler.BreadcrumbResolver
	Attacher        handler.MediaAttacher
	MediaStorage    handler.MediaStorage
	StateStore      dashboard.StateStore
	PreferenceStore dashboard.PreferenceStore
	Activity        *audit.Recorder
	Logger          *slog.Logger
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
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%d", deps.Config.App.MaxUploadSize)))

	collector := metrics.NewCollector()
	e.Use(collector.Middleware())
	e.GET("/metrics/requests", collector.Handler)

	if deps.Config.Server.EnablePprof {
		profiling.RegisterPprofRoutes(e)
	}

	// Global rate limiting
	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for the credential exchange
	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.Authenticator)
	contentHandler := handler.NewContentHandler(deps.Queries, deps.Breadcrumbs, deps.Attacher)
	stateHandler := handler.NewStateHandler(deps.StateStore, deps.PreferenceStore, deps.Logger)
	activityHandler := handler.NewActivityHandler(deps.Activity)
	mediaHandler := handler.NewMediaHandler(deps.MediaStorage, deps.Config.App.MediaURLPrefix, deps.Config.App.MaxUploadSize)

	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.Use(middleware.RequireBearer(deps.Config.OAuth.SigningKey))
	api.Use(deps.Activity.Middleware())

	dash := api.Group("/dashboard")
	dash.GET("/folders", contentHandler.ListFolders)
	dash.POST("/folders", contentHandler.CreateFolder)
	dash.POST("/folders/validate-name", contentHandler.ValidateFolderName)
	dash.GET("/folders/:id/content", contentHandler.ListContent)
	dash.GET("/folders/:id/breadcrumb", contentHandler.Breadcrumb)
	dash.POST("/folders/:id/media", contentHandler.AttachMedia)
	dash.POST("/bulk", contentHandler.BulkAction)
	dash.GET("/state", stateHandler.GetState)
	dash.PUT("/state", stateHandler.PutState)
	dash.POST("/navigate", stateHandler.Navigate)
	dash.GET("/preferences", stateHandler.GetPreferences)
	dash.PUT("/preferences", stateHandler.PutPreferences)
	dash.GET("/activity", activityHandler.Recent)

	media := api.Group("/media")
	media.POST("", mediaHandler.Upload)
	media.GET("/list", mediaHandler.List)
	media.PUT("/move", mediaHandler.Move)
	media.GET("/*", mediaHandler.Info)
	media.DELETE("/*", mediaHandler.Delete)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
