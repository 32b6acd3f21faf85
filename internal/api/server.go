// Package api serves the Dialogflow fulfillment webhook.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"voicechef/internal/conversation"
	"voicechef/internal/monitoring"
)

// ErrUnknownProject is returned for a webhook target no conversation serves
var ErrUnknownProject = errors.New("unknown project")

// Server is the webhook's HTTP API
type Server struct {
	Router   *gin.Engine
	projects map[string]*conversation.Conversation
	secret   string
	monitor  *monitoring.Monitor
	log      *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithAuth requires webhook calls to carry a JWT signed with secret. An
// empty secret leaves the webhook open.
func WithAuth(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

// WithMonitor records every turn and serves the live turn feed
func WithMonitor(m *monitoring.Monitor) Option {
	return func(s *Server) { s.monitor = m }
}

// WithLogger sets the server's logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer creates the API over the given conversations, keyed by project
func NewServer(projects map[string]*conversation.Conversation, opts ...Option) *Server {
	s := &Server{
		projects: projects,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), LoggingMiddleware(s.log))
	s.Router = router

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", s.Health)

	webhook := s.Router.Group("/webhook")
	if s.secret != "" {
		webhook.Use(AuthMiddleware(s.secret))
	}
	webhook.POST("/:project", s.Webhook)

	if s.monitor != nil {
		s.Router.GET("/debug/turns", s.monitor.Feed().ServeWS)
	}
}

// Health reports the service is up and which projects it serves
func (s *Server) Health(c *gin.Context) {
	projects := make([]string, 0, len(s.projects))
	for name := range s.projects {
		projects = append(projects, name)
	}
	sort.Strings(projects)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "projects": projects})
}

// Webhook answers one Dialogflow fulfillment request for a project
func (s *Server) Webhook(c *gin.Context) {
	project := c.Param("project")
	cv, ok := s.projects[project]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Errorf("%q: %w", project, ErrUnknownProject).Error()})
		return
	}

	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	sess := NewSession(&req)
	turn := &conversation.Turn{
		Intent:       req.Action(),
		Params:       req.Params(),
		ScreenOutput: req.HasScreen(),
		Contexts:     sess,
		Sink:         sess,
	}

	log := s.log.With("project", project, "action", turn.Intent, "request_id", c.GetString(keyRequestID))
	log.Debug("Handling turn", "query", req.QueryResult.QueryText, "contexts", sess.List())

	if err := cv.Handle(c.Request.Context(), turn); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	kind, resp, event := sess.Reply()
	if kind == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no response"})
		return
	}

	if s.monitor != nil {
		s.monitor.RecordTurn(monitoring.TurnRecord{
			At:        start,
			RequestID: c.GetString(keyRequestID),
			Project:   project,
			Session:   req.Session,
			Action:    turn.Intent,
			Reply:     kind,
			Speech:    resp.Text(),
			Event:     event,
			Contexts:  sess.List(),
			Duration:  time.Since(start),
		})
	}

	c.JSON(http.StatusOK, sess.WebhookResponse())
}
