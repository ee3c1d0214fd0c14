// @title           PX4 Agent API
// @version         1.0
// @description     Mission planning API: natural-language requests in, validated flight command sequences out.
// @host            localhost:8080
// @BasePath        /

package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/px4-agent-org/px4-agent/pkg/api/middleware"
	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/session"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Config defines the HTTP server settings.
type Config struct {
	Addr        string
	APIKey      string
	DevMode     bool // enables Swagger UI
	DefaultMode types.SessionMode
}

// Server hosts the Gin engine and manages API resources.
type Server struct {
	engine   *gin.Engine
	config   Config
	sessions *session.Service
	settings *config.Store
	missions store.Store
	log      *slog.Logger
}

// NewServer constructs the HTTP API server.
func NewServer(cfg Config, sessions *session.Service, settings *config.Store, missions store.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = types.ModeMission
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger(log))

	srv := &Server{
		engine:   engine,
		config:   cfg,
		sessions: sessions,
		settings: settings,
		missions: missions,
		log:      log,
	}
	srv.setupRoutes()
	return srv
}

// Engine returns the underlying Gin engine (for http.Server).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the configured address.
func (s *Server) Addr() string {
	return s.config.Addr
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	s.log.Info("http api listening", "addr", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.engine)
}
