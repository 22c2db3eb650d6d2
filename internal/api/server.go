package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/catalog"
	"github.com/scttee/elibilitychecker/internal/entitlement"
	"github.com/scttee/elibilitychecker/internal/metrics"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/rules"
	"github.com/scttee/elibilitychecker/internal/util"
)

// Lookup sources accepted by the lookup endpoints.
const (
	SourceAll      = "all"
	SourceStreet   = "street"
	SourceBusiness = "business"
	SourceSuburb   = "suburb"
)

// Config defines server dependencies.
type Config struct {
	Bundle         *catalog.Bundle
	AllowedOrigins []string
	// SearchLimit caps lookups that do not pass a limit.
	SearchLimit int
	Metrics     *metrics.Metrics
}

// Server wires HTTP handlers with the loaded checker data.
type Server struct {
	registry       *registry.Registry
	rules          *rules.Config
	estimator      *entitlement.Estimator
	allowedOrigins []string
	searchLimit    int
	metrics        *metrics.Metrics
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Bundle == nil || cfg.Bundle.Registry == nil || cfg.Bundle.Rules == nil || cfg.Bundle.Estimator == nil {
		return nil, errors.New("checker data required")
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		registry:       cfg.Bundle.Registry,
		rules:          cfg.Bundle.Rules,
		estimator:      cfg.Bundle.Estimator,
		allowedOrigins: cfg.AllowedOrigins,
		searchLimit:    cfg.SearchLimit,
		metrics:        m,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/config", s.handleConfig)
		api.GET("/questions", s.handleQuestions)
		api.GET("/lookup", s.handleLookup)
		api.GET("/lookup/stream", s.handleLookupStream)
		api.GET("/records/:id/estimate", s.handleRecordEstimate)
		api.POST("/estimate", s.handleEstimate)
		api.POST("/evaluate", s.handleEvaluate)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		SourceSummary:  s.rules.SourceSummary,
		SourceLinks:    s.rules.SourceLinks,
		Pathways:       s.rules.Pathways,
		GuidanceSource: s.estimator.SourceNote(),
		Coverage:       s.registry.Coverage(),
	})
}

func (s *Server) handleQuestions(c *gin.Context) {
	var answers rules.Responses
	for _, q := range rules.AllQuestions() {
		if value := strings.TrimSpace(c.Query(string(q))); value != "" {
			answers.Set(q, rules.Answer(value))
		}
	}
	if err := answers.Validate(); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, QuestionsResponse{
		Questions: rules.Questions(),
		Required:  nonNilQuestions(rules.Required(answers)),
		Missing:   nonNilQuestions(rules.Missing(answers)),
	})
}

func (s *Server) handleLookup(c *gin.Context) {
	source := strings.ToLower(strings.TrimSpace(c.DefaultQuery("source", SourceAll)))
	limit := 0
	if value := strings.TrimSpace(c.Query("limit")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", value))
			return
		}
		limit = parsed
	}

	query := c.Query("q")
	results, err := s.lookup(source, query, limit)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, LookupResponse{Query: query, Source: source, Results: results})
}

// lookup runs one search. A non-positive limit falls back to the server
// limit for the combined and street searches and to the variant default
// otherwise.
func (s *Server) lookup(source, query string, limit int) ([]registry.Record, error) {
	var results []registry.Record
	switch source {
	case SourceAll, "":
		source = SourceAll
		results = s.registry.Search(query, s.limitOr(limit))
	case SourceStreet:
		results = s.registry.SearchStreets(query, s.limitOr(limit))
	case SourceBusiness:
		results = s.registry.SearchBusinesses(query, limit)
	case SourceSuburb:
		results = s.registry.Suburbs().Search(query, limit)
	default:
		return nil, fmt.Errorf("unknown lookup source %q", source)
	}
	s.metrics.IncrementLookup(source, len(results))
	return results, nil
}

func (s *Server) limitOr(limit int) int {
	if limit > 0 {
		return limit
	}
	return s.searchLimit
}

func (s *Server) handleRecordEstimate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	record, ok := s.registry.Lookup(id)
	if !ok {
		s.renderError(c, http.StatusNotFound, fmt.Errorf("record %s not found", id))
		return
	}
	c.JSON(http.StatusOK, s.estimateResponse(record))
}

func (s *Server) handleEstimate(c *gin.Context) {
	var record registry.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid record: %w", err))
		return
	}
	if err := record.Validate(); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, s.estimateResponse(record))
}

func (s *Server) estimateResponse(record registry.Record) EstimateResponse {
	return EstimateResponse{
		Record:     record,
		Estimate:   s.estimator.Estimate(record),
		SourceNote: s.estimator.SourceNote(),
		Prefill:    entitlement.Prefill(record),
	}
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid answers: %w", err))
		return
	}
	answers := req.Answers
	if req.RecordID != "" {
		record, ok := s.registry.Lookup(req.RecordID)
		if !ok {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("record %s not found", req.RecordID))
			return
		}
		answers = entitlement.Prefill(record).Merge(answers)
	}
	if err := answers.Validate(); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if missing := rules.Missing(answers); len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, MissingAnswersResponse{
			Error:   "required questions are unanswered",
			Missing: missing,
		})
		return
	}

	timer := util.StartTimer()
	result := rules.Evaluate(answers, s.rules)
	s.metrics.ObserveEvaluateLatency(timer.Elapsed())
	s.metrics.IncrementEvaluation(result.PathwayKey, result.MatchedRuleID)

	logrus.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"pathway":    result.PathwayKey,
		"rule":       result.MatchedRuleID,
	}).Debug("answers evaluated")

	c.JSON(http.StatusOK, EvaluateResponse{
		Result:       result,
		Answers:      answers,
		ProcessingMs: timer.ElapsedMs(),
	})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func nonNilQuestions(qs []rules.Question) []rules.Question {
	if qs == nil {
		return []rules.Question{}
	}
	return qs
}
