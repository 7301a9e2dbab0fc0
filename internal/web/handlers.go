package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aboldguess/Nerfdrone/internal/classify"
	"github.com/aboldguess/Nerfdrone/internal/deck"
	"github.com/aboldguess/Nerfdrone/internal/errors"
	"github.com/aboldguess/Nerfdrone/internal/finance"
	"github.com/aboldguess/Nerfdrone/internal/fleet"
	"github.com/aboldguess/Nerfdrone/internal/geo"
	"github.com/aboldguess/Nerfdrone/internal/ingest"
	"github.com/aboldguess/Nerfdrone/internal/planner"
	"github.com/aboldguess/Nerfdrone/internal/survey"
)

// Handlers contains HTTP route handlers for the control centre.
type Handlers struct {
	deck       *deck.Deck
	renderer   *Renderer
	planCache  *lru.Cache[string, []planner.Command]
	fieldGuide template.HTML
}

// NewHandlers wires the deck into the route handlers. The plan cache is
// sized from settings; the field guide is rendered once.
func NewHandlers(d *deck.Deck, renderer *Renderer) (*Handlers, error) {
	cache, err := lru.New[string, []planner.Command](d.Settings.PlanCacheSize)
	if err != nil {
		return nil, err
	}
	return &Handlers{
		deck:       d,
		renderer:   renderer,
		planCache:  cache,
		fieldGuide: renderMarkdown(fieldGuideMarkdown),
	}, nil
}

// HandleDashboard handles GET / and renders the control centre dashboard.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	captures := h.deck.Surveys.ListCaptures()
	summaries := make([]survey.CaptureSummary, 0, len(captures))
	for _, capture := range captures {
		summaries = append(summaries, capture.Summary())
	}

	h.renderer.renderPage(w, r, "dashboard", DashboardData{
		PageData: PageData{
			Title:   "Nerfdrone Control Centre",
			Version: h.renderer.version,
		},
		Metrics:       h.deck.Surveys.Metrics(),
		Providers:     h.deck.Fleet.Providers(),
		Labels:        h.deck.Classifier.Labels(),
		Captures:      summaries,
		Messages:      h.deck.Feed.Messages(),
		FieldGuide:    h.fieldGuide,
		GoogleMapsKey: h.deck.Settings.GoogleMapsAPIKey,
		CruiseSpeed:   h.deck.Settings.CruiseSpeed,
	})
}

// HandlePlanRoute handles POST /plan-route and returns the generated
// navigation commands for the requested bounds.
func (h *Handlers) HandlePlanRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("invalid form data"))
		return
	}

	bounds, err := planBounds(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	speed, err := h.cruiseSpeed(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	commands := h.planCommands(bounds, speed)
	h.deck.Feed.Record("Planned %d navigation commands across %.2f acres.", len(commands), geo.Acres(bounds))
	renderJSON(w, http.StatusOK, map[string]any{"commands": commands})
}

// HandleDispatchRoute handles POST /dispatch-route: plan the requested
// bounds and send the route through a registered provider.
func (h *Handlers) HandleDispatchRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("invalid form data"))
		return
	}

	bounds, err := planBounds(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	speed, err := h.cruiseSpeed(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	name := strings.TrimSpace(r.FormValue("provider"))
	if name == "" {
		name = "dji"
	}
	provider, err := h.deck.Fleet.New(name, r.FormValue("connection"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	commands := fleet.CommandsFromRoute(h.deck.Planner.GridSurvey(bounds), speed)

	ctx := r.Context()
	if err := provider.Connect(ctx); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	sent, err := provider.Send(ctx, commands)
	_ = provider.Disconnect(ctx)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.deck.Feed.Record("Dispatched %d commands to provider %s.", sent, provider.Name())
	renderJSON(w, http.StatusOK, map[string]any{
		"provider":   provider.Name(),
		"dispatched": sent,
	})
}

// HandleIngestFootage handles POST /ingest-footage multipart uploads.
func (h *Handlers) HandleIngestFootage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("video")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("A video upload is required"))
		return
	}
	defer file.Close()

	source, err := ingest.ParseSource(r.FormValue("source"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	footage, err := h.deck.Ingestor.Ingest(r.Context(), header.Filename, file, source)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.deck.Feed.Record("Ingested footage %s via %s.", footage.ID, footage.Source)
	renderJSON(w, http.StatusOK, footage)
}

// HandleClassifyDemo handles GET /classify-demo using the fixed demo vectors.
func (h *Handlers) HandleClassifyDemo(w http.ResponseWriter, r *http.Request) {
	classifications := h.deck.Classifier.Classify(classify.DemoVectors())
	renderJSON(w, http.StatusOK, map[string]any{"classifications": classifications})
}

// HandleSurveyDays handles GET /survey-days with capture summaries and
// their GeoJSON overlays.
func (h *Handlers) HandleSurveyDays(w http.ResponseWriter, r *http.Request) {
	captures := h.deck.Surveys.ListCaptures()
	summaries := make([]survey.CaptureSummary, 0, len(captures))
	for _, capture := range captures {
		summaries = append(summaries, capture.Summary())
	}
	renderJSON(w, http.StatusOK, map[string]any{"captures": summaries})
}

// HandleCompareCaptures handles POST /compare-captures.
func (h *Handlers) HandleCompareCaptures(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("invalid form data"))
		return
	}

	base, err := formRequired(r, "base_capture")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	target, err := formRequired(r, "target_capture")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	comparison, err := h.deck.Surveys.CompareCaptures(base, target, strings.TrimSpace(r.FormValue("focus_asset")))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"base_capture":      comparison.Base.ID,
		"target_capture":    comparison.Target.ID,
		"asset_differences": comparison.Differences,
		"narrative":         comparison.Narrative,
	})
}

// HandleAnnotateAsset handles POST /annotate-asset.
func (h *Handlers) HandleAnnotateAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("invalid form data"))
		return
	}

	captureID, err := formRequired(r, "capture_id")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	assetID, err := formRequired(r, "asset_id")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	note, err := formRequired(r, "note")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	asset, err := h.deck.Surveys.AppendAnnotation(captureID, assetID, note)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.deck.Feed.Record("Annotated asset %s in capture %s.", assetID, captureID)
	renderJSON(w, http.StatusOK, map[string]any{
		"capture_id":  captureID,
		"asset_id":    asset.ID,
		"annotations": asset.Annotations,
		"note":        note,
	})
}

// HandleReconstruct handles POST /reconstruct and runs the reconstruction
// pipeline on previously ingested footage.
func (h *Handlers) HandleReconstruct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("invalid form data"))
		return
	}

	videoPath, err := formRequired(r, "video_path")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if _, err := os.Stat(videoPath); err != nil {
		h.renderer.renderError(w, r, errors.NewValidationf("No footage found at %s", videoPath))
		return
	}

	result, err := h.deck.Pipeline.Reconstruct(r.Context(), videoPath)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.deck.Feed.Record("Reconstruction job %s finished.", result.JobID)
	renderJSON(w, http.StatusOK, result)
}

// HandleListTransactions handles GET /finance/transactions.
func (h *Handlers) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := h.deck.Ledger.ListTransactions()
	records := make([]finance.Record, 0, len(transactions))
	for _, transaction := range transactions {
		records = append(records, transaction.Record())
	}
	renderJSON(w, http.StatusOK, map[string]any{"transactions": records})
}

// HandleDuplicateTransaction handles POST /finance/duplicate with a JSON
// body carrying the source transaction id and optional overrides.
func (h *Handlers) HandleDuplicateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TransactionID string         `json:"transaction_id"`
		Overrides     map[string]any `json:"overrides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.renderer.renderError(w, r, errors.NewValidation("Request body must be valid JSON"))
		return
	}
	if strings.TrimSpace(payload.TransactionID) == "" {
		h.renderer.renderError(w, r, errors.NewValidation("transaction_id is required"))
		return
	}

	overrides, err := finance.ParseOverrides(payload.Overrides)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	transaction, err := h.deck.Ledger.DuplicateTransaction(payload.TransactionID, overrides)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.deck.Feed.Record("Duplicated transaction %s as %s.", payload.TransactionID, transaction.ID)
	renderJSON(w, http.StatusOK, transaction.Record())
}

// HandleFinanceSnapshot handles GET /finance/snapshot.
func (h *Handlers) HandleFinanceSnapshot(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, h.deck.Ledger.Snapshot())
}

// planCommands returns the navigation commands for the bounds, consulting
// the LRU cache first. Cached slices are shared; callers must not mutate.
func (h *Handlers) planCommands(bounds geo.Bounds, cruiseSpeed float64) []planner.Command {
	key := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f@%.2f",
		bounds.LatMin, bounds.LonMin, bounds.LatMax, bounds.LonMax, cruiseSpeed)
	if commands, ok := h.planCache.Get(key); ok {
		return commands
	}
	commands := h.deck.Planner.GridSurvey(bounds).Commands(cruiseSpeed)
	h.planCache.Add(key, commands)
	return commands
}

// planBounds extracts the survey bounds from the request form. All four
// bound fields are required; a non-empty area_geojson overrides them.
func planBounds(r *http.Request) (geo.Bounds, error) {
	latMin, err := formFloat(r, "lat_min")
	if err != nil {
		return geo.Bounds{}, err
	}
	lonMin, err := formFloat(r, "lon_min")
	if err != nil {
		return geo.Bounds{}, err
	}
	latMax, err := formFloat(r, "lat_max")
	if err != nil {
		return geo.Bounds{}, err
	}
	lonMax, err := formFloat(r, "lon_max")
	if err != nil {
		return geo.Bounds{}, err
	}

	if raw := strings.TrimSpace(r.FormValue("area_geojson")); raw != "" {
		return geo.BoundsFromGeoJSON([]byte(raw))
	}
	return geo.Bounds{LatMin: latMin, LonMin: lonMin, LatMax: latMax, LonMax: lonMax}, nil
}

// cruiseSpeed reads the optional cruise_speed form field, falling back to
// the configured default.
func (h *Handlers) cruiseSpeed(r *http.Request) (float64, error) {
	raw := strings.TrimSpace(r.FormValue("cruise_speed"))
	if raw == "" {
		return h.deck.Settings.CruiseSpeed, nil
	}
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewValidation("cruise_speed must be a number")
	}
	return speed, nil
}

// formFloat parses a required numeric form field.
func formFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, errors.NewValidationf("%s is required", name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewValidationf("%s must be a number", name)
	}
	return value, nil
}

// formRequired reads a required form field, returning a validation error
// when it is empty.
func formRequired(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return "", errors.NewValidationf("%s is required", name)
	}
	return value, nil
}
