package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gopower/app"
	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/internal"
	"gopower/models"
	"gopower/ports"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// App is the HTML front end: a calculator form over the study service.
type App struct {
	router    *chi.Mux
	study     *app.StudyService
	catalog   ports.BiomarkerCatalog
	templates *template.Template
	config    Config
	log       *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates the UI application
func NewApp(config Config, studySvc *app.StudyService, cat ports.BiomarkerCatalog, logger *internal.Logger) (*App, error) {
	funcMap := template.FuncMap{
		"mul": func(a, b float64) float64 { return a * b },
		"sum": func(a, b float64) float64 { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		study:     studySvc,
		catalog:   cat,
		templates: templates,
		config:    config,
		log:       logger.Named("ui"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", http.StripPrefix("/", staticFS))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleCalculatorPage)
	a.router.Post("/solve", a.handleSolveForm)
	a.router.Get("/methodology", a.handleMethodologyPage)
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	port := a.config.Port
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	a.log.Info("starting UI server on http://localhost%s", addr)
	return http.ListenAndServe(addr, a.router)
}

// tierView groups one tier's markers for the selector optgroups.
type tierView struct {
	Resolution study.Resolution
	Label      string
	Markers    []study.Biomarker
}

// calculatorForm echoes the submitted values back into the form. Values stay
// strings so the page re-renders exactly what the user typed.
type calculatorForm struct {
	Marker         string
	BiologicalSD   string
	IntersystemSD  string
	Alpha          string
	Power          string
	Delta          string
	Design         string
	PairedVariance string
}

type calculatorView struct {
	Tiers   []tierView
	Form    calculatorForm
	Outcome *app.SolveOutcome
	Error   string
}

func defaultForm() calculatorForm {
	return calculatorForm{
		Alpha:  "0.05",
		Power:  "0.80",
		Design: string(study.DesignIndependent),
	}
}

func (a *App) handleCalculatorPage(w http.ResponseWriter, r *http.Request) {
	a.renderCalculator(w, r, calculatorView{Form: defaultForm()})
}

func (a *App) handleSolveForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := calculatorForm{
		Marker:         r.FormValue("marker"),
		BiologicalSD:   strings.TrimSpace(r.FormValue("biological_sd")),
		IntersystemSD:  strings.TrimSpace(r.FormValue("intersystem_sd")),
		Alpha:          strings.TrimSpace(r.FormValue("alpha")),
		Power:          strings.TrimSpace(r.FormValue("power")),
		Delta:          strings.TrimSpace(r.FormValue("delta")),
		Design:         r.FormValue("design"),
		PairedVariance: r.FormValue("paired_variance"),
	}
	view := calculatorView{Form: form}

	cmd, err := form.toCommand()
	if err != nil {
		view.Error = err.Error()
		a.renderCalculator(w, r, view)
		return
	}

	outcome, err := a.study.Solve(r.Context(), cmd)
	if err != nil {
		view.Error = err.Error()
		a.renderCalculator(w, r, view)
		return
	}

	view.Outcome = outcome
	a.renderCalculator(w, r, view)
}

// toCommand converts the form into a solve command. Empty numeric fields
// fall through as zero so the request defaults apply.
func (f calculatorForm) toCommand() (app.SolveCommand, error) {
	req := models.SampleSizeRequest{
		Design:         f.Design,
		PairedVariance: f.PairedVariance,
	}

	var err error
	if req.Alpha, err = parseFormFloat("alpha", f.Alpha); err != nil {
		return app.SolveCommand{}, err
	}
	if req.Power, err = parseFormFloat("power", f.Power); err != nil {
		return app.SolveCommand{}, err
	}
	if req.Delta, err = parseFormFloat("delta", f.Delta); err != nil {
		return app.SolveCommand{}, err
	}
	if req.BiologicalSD, err = parseFormFloat("biological SD", f.BiologicalSD); err != nil {
		return app.SolveCommand{}, err
	}
	if req.IntersystemSD, err = parseFormFloat("inter-system SD", f.IntersystemSD); err != nil {
		return app.SolveCommand{}, err
	}

	cmd := app.SolveCommand{Request: req.ToStudyRequest()}
	if f.Marker != "" {
		res, key, ok := strings.Cut(f.Marker, "/")
		if !ok {
			return app.SolveCommand{}, fmt.Errorf("malformed marker selection %q", f.Marker)
		}
		cmd.Resolution = study.Resolution(res)
		cmd.Biomarker = core.BiomarkerKey(key)
	}
	return cmd, nil
}

func parseFormFloat(label, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", label, value)
	}
	return v, nil
}

func (a *App) handleMethodologyPage(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "methodology.html", map[string]any{
		"Content": template.HTML(MethodologyHTML()),
	})
}

func (a *App) renderCalculator(w http.ResponseWriter, r *http.Request, view calculatorView) {
	tiers, err := a.loadTiers(r)
	if err != nil {
		a.log.Error("loading catalog tiers: %v", err)
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	view.Tiers = tiers
	a.renderTemplate(w, "calculator.html", view)
}

func (a *App) loadTiers(r *http.Request) ([]tierView, error) {
	resolutions, err := a.catalog.Resolutions(r.Context())
	if err != nil {
		return nil, err
	}

	tiers := make([]tierView, 0, len(resolutions))
	for _, res := range resolutions {
		markers, err := a.catalog.List(r.Context(), res)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tierView{Resolution: res, Label: res.Label(), Markers: markers})
	}
	return tiers, nil
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.log.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
