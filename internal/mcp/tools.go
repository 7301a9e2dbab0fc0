package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Parameter names match the web form fields so agents and
// operators share one vocabulary.

var planGridRouteToolDef = mcp.NewTool("plan_grid_route",
	mcp.WithDescription("Generate boustrophedon navigation commands covering a survey bounding box."),
	mcp.WithNumber("lat_min", mcp.Required(), mcp.Description("Southern edge of the survey area in decimal degrees.")),
	mcp.WithNumber("lon_min", mcp.Required(), mcp.Description("Western edge of the survey area in decimal degrees.")),
	mcp.WithNumber("lat_max", mcp.Required(), mcp.Description("Northern edge of the survey area in decimal degrees.")),
	mcp.WithNumber("lon_max", mcp.Required(), mcp.Description("Eastern edge of the survey area in decimal degrees.")),
	mcp.WithNumber("cruise_speed", mcp.Description("Cruise speed in m/s stamped onto each command. Defaults to the configured speed.")),
	mcp.WithString("area_geojson", mcp.Description("Polygon GeoJSON whose bounding box overrides the numeric bounds.")),
)

var listCapturesToolDef = mcp.NewTool("list_captures",
	mcp.WithDescription("List registered survey captures, newest first, with acreage and asset summaries."),
)

var compareCapturesToolDef = mcp.NewTool("compare_captures",
	mcp.WithDescription("Compare asset volumes between two captures and narrate the differences."),
	mcp.WithString("base_capture", mcp.Required(), mcp.Description("Capture id of the earlier survey.")),
	mcp.WithString("target_capture", mcp.Required(), mcp.Description("Capture id of the later survey.")),
	mcp.WithString("focus_asset", mcp.Description("Restrict the comparison to a single asset id.")),
)

var annotateAssetToolDef = mcp.NewTool("annotate_asset",
	mcp.WithDescription("Append an inspection note to an asset within a capture."),
	mcp.WithString("capture_id", mcp.Required(), mcp.Description("Capture holding the asset.")),
	mcp.WithString("asset_id", mcp.Required(), mcp.Description("Asset to annotate.")),
	mcp.WithString("note", mcp.Required(), mcp.Description("Inspection note to append.")),
)

var surveyMetricsToolDef = mcp.NewTool("survey_metrics",
	mcp.WithDescription("Aggregate metrics across all captures: totals, averages, and the latest capture."),
)

var listTransactionsToolDef = mcp.NewTool("list_transactions",
	mcp.WithDescription("List ledger transactions, most recent occurrence first."),
)

var duplicateTransactionToolDef = mcp.NewTool("duplicate_transaction",
	mcp.WithDescription("Duplicate a ledger transaction under a freshly minted id, optionally overriding fields."),
	mcp.WithString("transaction_id", mcp.Required(), mcp.Description("Transaction to duplicate.")),
	mcp.WithObject("overrides", mcp.Description("Field overrides: description, category, amount, occurred_on, transaction_type, metadata.")),
)

var financeSnapshotToolDef = mcp.NewTool("finance_snapshot",
	mcp.WithDescription("Snapshot the ledger grouped into income and expenses."),
)
