package api

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/px4-agent-org/px4-agent/pkg/api/handler"
	"github.com/px4-agent-org/px4-agent/pkg/api/middleware"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health (no auth required)
	s.engine.GET("/health", handler.Health)
	s.engine.GET("/healthz", handler.Health)

	v1 := s.engine.Group("/api/v1")
	v1.Use(middleware.Auth(s.config.APIKey))

	sessionHandler := handler.NewSessionHandler(s.sessions, s.config.DefaultMode)
	v1.POST("/session", sessionHandler.Create)
	v1.GET("/session", sessionHandler.List)
	v1.GET("/session/:id", sessionHandler.Get)
	v1.DELETE("/session/:id", sessionHandler.Delete)
	v1.POST("/session/:id/message", sessionHandler.Message)
	v1.POST("/session/:id/message/stream", sessionHandler.MessageStream)

	// Mission and approval, per session
	v1.GET("/session/:id/mission", sessionHandler.Mission)
	v1.DELETE("/session/:id/mission", sessionHandler.ClearMission)
	v1.POST("/session/:id/approve", sessionHandler.Approve)
	v1.POST("/session/:id/reject", sessionHandler.Reject)

	// Persisted approved missions
	archiveHandler := handler.NewArchiveHandler(s.missions)
	v1.GET("/missions", archiveHandler.List)
	v1.GET("/missions/:id", archiveHandler.Get)

	// Runtime-adjustable defaults
	settingsHandler := handler.NewSettingsHandler(s.settings)
	v1.GET("/settings", settingsHandler.Get)
	v1.PUT("/settings/takeoff", settingsHandler.UpdateTakeoff)
	v1.PUT("/settings/current_action", settingsHandler.UpdateCurrentAction)

	// Swagger UI (only in DevMode)
	if s.config.DevMode {
		s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.log.Info("swagger ui enabled", "path", "/swagger/index.html")
	}
}
