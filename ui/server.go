package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gopower/app"
	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/internal"
	"gopower/internal/errors"
	"gopower/models"
	"gopower/ports"
)

// Server is the JSON API for the sample-size engine.
type Server struct {
	router   *gin.Engine
	study    *app.StudyService
	sweep    *app.SweepService
	estimate *app.EstimateService
	catalog  ports.BiomarkerCatalog
	log      *internal.Logger
}

// NewServer creates the API server with its routes registered
func NewServer(studySvc *app.StudyService, sweepSvc *app.SweepService, estimateSvc *app.EstimateService, catalog ports.BiomarkerCatalog, logger *internal.Logger) *Server {
	s := &Server{
		router:   gin.Default(),
		study:    studySvc,
		sweep:    sweepSvc,
		estimate: estimateSvc,
		catalog:  catalog,
		log:      logger.Named("api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealthz)

	api := s.router.Group("/api")
	{
		api.GET("/catalog", s.handleCatalogTiers)
		api.GET("/catalog/:resolution", s.handleCatalogList)
		api.GET("/catalog/:resolution/:key", s.handleCatalogGet)
		api.POST("/sample-size", s.handleSampleSize)
		api.POST("/curve", s.handleCurve)
		api.POST("/sweep", s.handleSweep)
		api.POST("/estimate", s.handleEstimate)
		api.GET("/methodology", s.handleMethodology)
	}
}

// Router exposes the handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	s.log.Info("starting API server on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCatalogTiers(c *gin.Context) {
	resolutions, err := s.catalog.Resolutions(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}

	tiers := make([]gin.H, len(resolutions))
	for i, res := range resolutions {
		tiers[i] = gin.H{"resolution": res, "label": res.Label()}
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

func (s *Server) handleCatalogList(c *gin.Context) {
	res := study.Resolution(c.Param("resolution"))

	markers, err := s.catalog.List(c.Request.Context(), res)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CatalogTierResponse{
		Resolution: string(res),
		Label:      res.Label(),
		Markers:    markers,
	})
}

func (s *Server) handleCatalogGet(c *gin.Context) {
	res := study.Resolution(c.Param("resolution"))
	key := core.BiomarkerKey(c.Param("key"))

	marker, err := s.catalog.Get(c.Request.Context(), res, key)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, marker)
}

func (s *Server) handleSampleSize(c *gin.Context) {
	var req models.SampleSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBadBody(c, err)
		return
	}

	outcome, err := s.study.Solve(c.Request.Context(), app.SolveCommand{
		Request:    req.ToStudyRequest(),
		Resolution: study.Resolution(req.Resolution),
		Biomarker:  core.BiomarkerKey(req.Biomarker),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleCurve(c *gin.Context) {
	var req models.CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBadBody(c, err)
		return
	}

	cmd := app.CurveCommand{
		SolveCommand: app.SolveCommand{
			Request:    req.ToStudyRequest(),
			Resolution: study.Resolution(req.Resolution),
			Biomarker:  core.BiomarkerKey(req.Biomarker),
		},
		Deltas: req.Deltas,
	}
	if req.Range != nil {
		cmd.Range = &app.CurveRange{From: req.Range.From, To: req.Range.To, Points: req.Range.Points}
	}

	outcome, err := s.study.Curve(c.Request.Context(), cmd)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBadBody(c, err)
		return
	}

	outcome, err := s.sweep.Run(c.Request.Context(), app.SweepRequest{
		Resolution:     study.Resolution(req.Resolution),
		Significance:   models.Significance(req.Alpha, req.Power),
		Design:         models.DesignOrDefault(req.Design),
		RelativeEffect: req.RelativeEffect,
		PairedVariance: study.PairedVariance(req.PairedVariance),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleEstimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderBadBody(c, err)
		return
	}

	cmd := app.EstimateCommand{
		SystemA: req.SystemA,
		SystemB: req.SystemB,
		// Empty design means paired here, the design the data came from.
		Design:         study.Design(req.Design),
		PairedVariance: study.PairedVariance(req.PairedVariance),
	}
	if req.WantsSuggestion() {
		sig := models.Significance(req.Alpha, req.Power)
		eff := req.Effect()
		cmd.Significance = &sig
		cmd.Effect = &eff
	}

	outcome, err := s.estimate.Estimate(c.Request.Context(), cmd)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleMethodology(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, MethodologyHTML())
}

func (s *Server) renderBadBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    errors.CodeInvalidArgument,
		Message: "invalid request body: " + err.Error(),
	})
}

// renderError maps domain and infrastructure errors onto HTTP statuses:
// invalid input is the caller's fault, missing catalog entries are 404,
// everything else is ours.
func (s *Server) renderError(c *gin.Context, err error) {
	status, code := httpStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, models.ErrorResponse{Code: code, Message: err.Error()})
}

func httpStatus(err error) (int, string) {
	switch {
	case core.IsInvalidArgument(err):
		return http.StatusBadRequest, errors.CodeInvalidArgument
	case core.IsNotFound(err):
		return http.StatusNotFound, errors.CodeNotFound
	default:
		if code := errors.GetCode(err); code != "UNKNOWN" {
			return http.StatusInternalServerError, code
		}
		return http.StatusInternalServerError, errors.CodeInternalError
	}
}
