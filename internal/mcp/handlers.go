package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aboldguess/Nerfdrone/internal/deck"
	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
	"github.com/aboldguess/Nerfdrone/internal/finance"
	"github.com/aboldguess/Nerfdrone/internal/geo"
	"github.com/aboldguess/Nerfdrone/internal/survey"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deck *deck.Deck
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(d *deck.Deck) *Handlers {
	return &Handlers{deck: d}
}

// Request types for each tool

// PlanGridRouteRequest represents the arguments for plan_grid_route.
// Bounds use pointers so a genuinely missing field is distinguishable from
// zero, which is a valid coordinate.
type PlanGridRouteRequest struct {
	LatMin      *float64 `json:"lat_min,omitempty"`
	LonMin      *float64 `json:"lon_min,omitempty"`
	LatMax      *float64 `json:"lat_max,omitempty"`
	LonMax      *float64 `json:"lon_max,omitempty"`
	CruiseSpeed *float64 `json:"cruise_speed,omitempty"`
	AreaGeoJSON string   `json:"area_geojson,omitempty"`
}

// CompareCapturesRequest represents the arguments for compare_captures.
type CompareCapturesRequest struct {
	BaseCapture   string `json:"base_capture"`
	TargetCapture string `json:"target_capture"`
	FocusAsset    string `json:"focus_asset,omitempty"`
}

// AnnotateAssetRequest represents the arguments for annotate_asset.
type AnnotateAssetRequest struct {
	CaptureID string `json:"capture_id"`
	AssetID   string `json:"asset_id"`
	Note      string `json:"note"`
}

// DuplicateTransactionRequest represents the arguments for duplicate_transaction.
type DuplicateTransactionRequest struct {
	TransactionID string         `json:"transaction_id"`
	Overrides     map[string]any `json:"overrides,omitempty"`
}

// Handler implementations

// HandlePlanGridRoute handles the plan_grid_route tool call.
func (h *Handlers) HandlePlanGridRoute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PlanGridRouteRequest](req)
	if err != nil {
		return errorResult(droneerrors.NewValidation(err.Error())), nil
	}

	bounds, err := requestBounds(input)
	if err != nil {
		return errorResult(err), nil
	}

	speed := h.deck.Settings.CruiseSpeed
	if input.CruiseSpeed != nil {
		speed = *input.CruiseSpeed
	}

	commands := h.deck.Planner.GridSurvey(bounds).Commands(speed)
	return successResult(map[string]any{"commands": commands})
}

// HandleListCaptures handles the list_captures tool call.
func (h *Handlers) HandleListCaptures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	captures := h.deck.Surveys.ListCaptures()
	summaries := make([]survey.CaptureSummary, 0, len(captures))
	for _, capture := range captures {
		summaries = append(summaries, capture.Summary())
	}
	return successResult(map[string]any{"captures": summaries})
}

// HandleCompareCaptures handles the compare_captures tool call.
func (h *Handlers) HandleCompareCaptures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CompareCapturesRequest](req)
	if err != nil {
		return errorResult(droneerrors.NewValidation(err.Error())), nil
	}
	if strings.TrimSpace(input.BaseCapture) == "" {
		return errorResult(droneerrors.NewValidation("base_capture is required")), nil
	}
	if strings.TrimSpace(input.TargetCapture) == "" {
		return errorResult(droneerrors.NewValidation("target_capture is required")), nil
	}

	comparison, err := h.deck.Surveys.CompareCaptures(
		input.BaseCapture, input.TargetCapture, strings.TrimSpace(input.FocusAsset))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"base_capture":      comparison.Base.ID,
		"target_capture":    comparison.Target.ID,
		"asset_differences": comparison.Differences,
		"narrative":         comparison.Narrative,
	})
}

// HandleAnnotateAsset handles the annotate_asset tool call.
func (h *Handlers) HandleAnnotateAsset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnnotateAssetRequest](req)
	if err != nil {
		return errorResult(droneerrors.NewValidation(err.Error())), nil
	}
	if strings.TrimSpace(input.CaptureID) == "" {
		return errorResult(droneerrors.NewValidation("capture_id is required")), nil
	}
	if strings.TrimSpace(input.AssetID) == "" {
		return errorResult(droneerrors.NewValidation("asset_id is required")), nil
	}
	if strings.TrimSpace(input.Note) == "" {
		return errorResult(droneerrors.NewValidation("note is required")), nil
	}

	asset, err := h.deck.Surveys.AppendAnnotation(input.CaptureID, input.AssetID, input.Note)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"capture_id":  input.CaptureID,
		"asset_id":    asset.ID,
		"annotations": asset.Annotations,
		"note":        input.Note,
	})
}

// HandleSurveyMetrics handles the survey_metrics tool call.
func (h *Handlers) HandleSurveyMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.deck.Surveys.Metrics())
}

// HandleListTransactions handles the list_transactions tool call.
func (h *Handlers) HandleListTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transactions := h.deck.Ledger.ListTransactions()
	records := make([]finance.Record, 0, len(transactions))
	for _, transaction := range transactions {
		records = append(records, transaction.Record())
	}
	return successResult(map[string]any{"transactions": records})
}

// HandleDuplicateTransaction handles the duplicate_transaction tool call.
func (h *Handlers) HandleDuplicateTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DuplicateTransactionRequest](req)
	if err != nil {
		return errorResult(droneerrors.NewValidation(err.Error())), nil
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return errorResult(droneerrors.NewValidation("transaction_id is required")), nil
	}

	overrides, err := finance.ParseOverrides(input.Overrides)
	if err != nil {
		return errorResult(err), nil
	}

	transaction, err := h.deck.Ledger.DuplicateTransaction(input.TransactionID, overrides)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(transaction.Record())
}

// HandleFinanceSnapshot handles the finance_snapshot tool call.
func (h *Handlers) HandleFinanceSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.deck.Ledger.Snapshot())
}

// requestBounds resolves the survey bounds from the request. All four bound
// fields are required; a non-empty area_geojson overrides them.
func requestBounds(input PlanGridRouteRequest) (geo.Bounds, error) {
	required := []struct {
		name  string
		value *float64
	}{
		{"lat_min", input.LatMin},
		{"lon_min", input.LonMin},
		{"lat_max", input.LatMax},
		{"lon_max", input.LonMax},
	}
	for _, field := range required {
		if field.value == nil {
			return geo.Bounds{}, droneerrors.NewValidationf("%s is required", field.name)
		}
	}

	if raw := strings.TrimSpace(input.AreaGeoJSON); raw != "" {
		return geo.BoundsFromGeoJSON([]byte(raw))
	}
	return geo.Bounds{
		LatMin: *input.LatMin,
		LonMin: *input.LonMin,
		LatMax: *input.LatMax,
		LonMax: *input.LonMax,
	}, nil
}

// Result helpers

// errorResult creates an MCP error result from any error. Uses IsError: true
// so MCP clients recognize failures properly. Internal error details are not
// exposed to prevent leaking paths or wrapped causes.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var dErr *droneerrors.DroneError
	if stderrors.As(err, &dErr) {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": dErr.Message,
			"status":  dErr.Status,
		}
		if dErr.Code != droneerrors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
