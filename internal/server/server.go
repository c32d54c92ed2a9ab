// Package server exposes the classifier over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailsift/email-classifier/internal/config"
	"github.com/mailsift/email-classifier/internal/core"
	"github.com/mailsift/email-classifier/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves classification requests over HTTP
type Server struct {
	service *core.ClassifierService
	logger  *zap.Logger
	httpSrv *http.Server
}

// NewServer creates a new HTTP server for the classifier service
func NewServer(cfg *config.Config, service *core.ClassifierService, logger *zap.Logger) (*Server, error) {
	readTimeout, err := cfg.GetDuration("server.read_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid server read timeout: %w", err)
	}
	writeTimeout, err := cfg.GetDuration("server.write_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid server write timeout: %w", err)
	}

	s := &Server{
		service: service,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/predict", s.handlePredict)
	router.POST("/batch_predict", s.handleBatchPredict)
	router.GET("/model_info", s.handleModelInfo)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpSrv = &http.Server{
		Addr:         cfg.GetString("server.listen_address"),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s, nil
}

// Start begins listening for HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the route tree, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

type predictRequest struct {
	Subject *string    `json:"subject"`
	Body    *core.Body `json:"body"`
	Sender  string     `json:"sender"`
}

// missingFields lists the required fields the request did not carry
func (r *predictRequest) missingFields() []string {
	var missing []string
	if r.Subject == nil {
		missing = append(missing, "subject")
	}
	if r.Body == nil {
		missing = append(missing, "body")
	}
	return missing
}

func (r *predictRequest) email() core.Email {
	return core.Email{
		Subject: *r.Subject,
		Body:    *r.Body,
		Sender:  r.Sender,
	}
}

type batchPredictRequest struct {
	Emails []predictRequest `json:"emails"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.PredictionsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		metrics.PredictionsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields", "fields": missing})
		return
	}

	start := time.Now()
	prediction, err := s.service.Predict(req.email())
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.respondError(c, err)
		return
	}

	metrics.PredictionsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, prediction)
}

func (s *Server) handleBatchPredict(c *gin.Context) {
	var req batchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if len(req.Emails) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emails list is required"})
		return
	}
	metrics.BatchSize.Observe(float64(len(req.Emails)))

	// Unlike /predict, missing fields degrade to empty values so one sparse
	// entry never rejects the whole batch
	emails := make([]core.Email, len(req.Emails))
	for i, entry := range req.Emails {
		if entry.Subject != nil {
			emails[i].Subject = *entry.Subject
		}
		if entry.Body != nil {
			emails[i].Body = *entry.Body
		}
		emails[i].Sender = entry.Sender
	}

	predictions, batchErrors, err := s.service.PredictBatch(emails)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := gin.H{
		"predictions": predictions,
		"count":       len(predictions),
	}
	if len(batchErrors) > 0 {
		resp["errors"] = batchErrors
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleModelInfo(c *gin.Context) {
	info := s.service.Info()
	if !info.Loaded {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no model loaded"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": s.service.Ready(),
	})
}

// respondError maps service errors onto HTTP status codes
func (s *Server) respondError(c *gin.Context, err error) {
	switch core.Kind(err) {
	case core.KindNotReady:
		metrics.PredictionsTotal.WithLabelValues("not_ready").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
	case core.KindBadInput:
		metrics.PredictionsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		metrics.PredictionsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
