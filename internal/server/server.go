package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/pipeline"
	"NewsletterDigest/internal/ports"
)

// RunFunc triggers one pipeline run.
type RunFunc func(ctx context.Context, daysBack int) (domain.RunOutcome, error)

// Server exposes the status, trigger, and interaction HTTP API around
// the pipeline.
type Server struct {
	cfg        config.Config
	heuristics config.Heuristics
	tracker    *StatusTracker
	run        RunFunc
	store      ports.InteractionStore
	senders    ports.SenderStore
	logger     *slog.Logger
}

// New wires the API around the pipeline runner and stores.
func New(cfg config.Config, heuristics config.Heuristics, tracker *StatusTracker, run RunFunc,
	store ports.InteractionStore, senders ports.SenderStore, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		heuristics: heuristics,
		tracker:    tracker,
		run:        run,
		store:      store,
		senders:    senders,
		logger:     logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	allowedOrigins := []string{"http://localhost:3000"}
	if s.cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, s.cfg.Server.FrontendURL)
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/api/status", s.getStatus)
	r.POST("/api/trigger", s.postTrigger)
	r.POST("/api/vote", s.postVote)
	r.POST("/api/mark-read", s.postMarkRead)
	r.POST("/api/junk", s.postJunk)
	r.GET("/api/senders", s.getSenders)
	r.POST("/api/senders", s.postSender)
	r.DELETE("/api/senders/:email", s.deleteSender)
	r.GET("/health", s.getHealth)

	return r
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	return s.Router().Run(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

type statusResponse struct {
	LastRun          lastRunResponse `json:"last_run"`
	SchedulerRunning bool            `json:"scheduler_running"`
	Config           configResponse  `json:"config"`
}

type lastRunResponse struct {
	Timestamp       string `json:"timestamp,omitempty"`
	Status          string `json:"status"`
	NewsletterCount int    `json:"newsletter_count"`
	ArticleCount    int    `json:"article_count"`
	Error           string `json:"error,omitempty"`
}

type configResponse struct {
	EmailConfigured  bool   `json:"email_configured"`
	OpenAIConfigured bool   `json:"openai_configured"`
	Schedule         string `json:"schedule"`
}

func (s *Server) getStatus(c *gin.Context) {
	report, running := s.tracker.Snapshot()

	last := lastRunResponse{
		Status:          string(report.Outcome),
		NewsletterCount: report.NewsletterCount,
		ArticleCount:    report.ArticleCount,
		Error:           report.Err,
	}
	if !report.Timestamp.IsZero() {
		last.Timestamp = report.Timestamp.Format(time.RFC3339)
	}
	if running {
		last.Status = string(domain.OutcomeRunning)
	}

	c.JSON(http.StatusOK, statusResponse{
		LastRun:          last,
		SchedulerRunning: true,
		Config: configResponse{
			EmailConfigured:  s.cfg.Mailbox.Configured(),
			OpenAIConfigured: s.cfg.OpenAI.APIKey != "",
			Schedule:         fmt.Sprintf("%02d:%02d", s.cfg.Digest.Hour, s.cfg.Digest.Minute),
		},
	})
}

type triggerRequest struct {
	DaysBack int `json:"days_back"`
}

func (s *Server) postTrigger(c *gin.Context) {
	var req triggerRequest
	_ = c.ShouldBindJSON(&req)
	if req.DaysBack <= 0 {
		req.DaysBack = 1
	}

	if !s.tracker.TryBegin() {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A run is already in progress"})
		return
	}

	go func(daysBack int) {
		_, _ = s.run(context.Background(), daysBack)
	}(req.DaysBack)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Digest generation started"})
}

type interactionRequest struct {
	ArticleURL    string `json:"article_url" binding:"required"`
	ArticleTitle  string `json:"article_title"`
	ArticleSource string `json:"article_source"`
	Vote          int    `json:"vote"`
}

func (s *Server) postVote(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	err := s.store.SaveInteraction(c.Request.Context(), domain.Interaction{
		ArticleURL:    req.ArticleURL,
		ArticleTitle:  req.ArticleTitle,
		ArticleSource: req.ArticleSource,
		Vote:          req.Vote,
	})
	if err != nil {
		s.error("save vote failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// postMarkRead only flips the read flag; any recorded vote stays intact.
func (s *Server) postMarkRead(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := s.store.MarkRead(c.Request.Context(), req.ArticleURL); err != nil {
		s.error("mark read failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type junkRequest struct {
	ArticleURL   string `json:"article_url" binding:"required"`
	ArticleTitle string `json:"article_title"`
	PatternType  string `json:"pattern_type"`
}

// postJunk derives a block pattern from the offending article and
// persists it for future runs.
func (s *Server) postJunk(c *gin.Context) {
	var req junkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	filter := domain.JunkFilter{Type: domain.PatternType(req.PatternType)}
	switch filter.Type {
	case domain.PatternDomain:
		filter.Pattern = pipeline.DeriveDomainPattern(req.ArticleURL)
	default:
		filter.Type = domain.PatternTitle
		filter.Pattern = pipeline.DeriveTitlePattern(req.ArticleTitle, s.heuristics)
	}
	if filter.Pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not derive a filter pattern"})
		return
	}

	if err := s.store.AddJunkFilter(c.Request.Context(), filter, req.ArticleURL, req.ArticleTitle); err != nil {
		s.error("add junk filter failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pattern": filter.Pattern, "pattern_type": string(filter.Type)})
}

type senderRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

func (s *Server) getSenders(c *gin.Context) {
	senders, err := s.senders.Senders(c.Request.Context())
	if err != nil {
		s.error("list senders failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	out := make([]gin.H, 0, len(senders))
	for _, sender := range senders {
		out = append(out, gin.H{"email": sender.Email, "name": sender.Name})
	}
	c.JSON(http.StatusOK, gin.H{"senders": out})
}

func (s *Server) postSender(c *gin.Context) {
	var req senderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := s.senders.AddSender(c.Request.Context(), req.Email, req.Name); err != nil {
		s.error("add sender failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteSender(c *gin.Context) {
	if err := s.senders.RemoveSender(c.Request.Context(), c.Param("email")); err != nil {
		s.error("remove sender failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) error(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, "error", err)
	}
}
