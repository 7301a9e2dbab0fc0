package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/aboldguess/Nerfdrone/internal/classify"
	"github.com/aboldguess/Nerfdrone/internal/deck"
	"github.com/aboldguess/Nerfdrone/internal/errors"
	"github.com/aboldguess/Nerfdrone/internal/finance"
	"github.com/aboldguess/Nerfdrone/internal/geo"
	"github.com/aboldguess/Nerfdrone/internal/mcp"
	"github.com/aboldguess/Nerfdrone/internal/pointcloud"
	"github.com/aboldguess/Nerfdrone/internal/survey"
	"github.com/aboldguess/Nerfdrone/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deck.Deck) *cli.App {
	app := &cli.App{
		Name:    "nerfdrone",
		Usage:   "Drone photogrammetry control centre",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(d),
			mcpCmd(d),
			planCmd(d),
			capturesCmd(d),
			metricsCmd(d),
			compareCmd(d),
			transactionsCmd(d),
			duplicateCmd(d),
			snapshotCmd(d),
			classifyCmd(d),
			exportCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the control centre web interface",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Bind address (defaults to NERFDRONE_INTERFACE_HOST)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Bind port (defaults to NERFDRONE_INTERFACE_PORT)"},
		},
		Action: func(c *cli.Context) error {
			host := c.String("host")
			if host == "" {
				host = d.Settings.InterfaceHost
			}
			port := c.Int("port")
			if port == 0 {
				port = d.Settings.InterfacePort
			}

			srv := web.NewServer(d, Version, host, port)
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(d, Version)
		},
	}
}

// planCmd creates the plan command.
func planCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Generate grid survey navigation commands for a bounding box",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "lat-min", Usage: "Southern latitude"},
			&cli.Float64Flag{Name: "lon-min", Usage: "Western longitude"},
			&cli.Float64Flag{Name: "lat-max", Usage: "Northern latitude"},
			&cli.Float64Flag{Name: "lon-max", Usage: "Eastern longitude"},
			&cli.Float64Flag{Name: "cruise-speed", Aliases: []string{"s"}, Usage: "Cruise speed in m/s (defaults to NERFDRONE_CRUISE_SPEED)"},
			&cli.StringFlag{Name: "area-geojson", Usage: "Path to a polygon GeoJSON file; its bounding box replaces the bound flags"},
		},
		Action: func(c *cli.Context) error {
			var bounds geo.Bounds
			if path := c.String("area-geojson"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewValidationf("No GeoJSON file found at %s", path))
				}
				if bounds, err = geo.BoundsFromGeoJSON(data); err != nil {
					return outputError(err)
				}
			} else {
				for _, name := range []string{"lat-min", "lon-min", "lat-max", "lon-max"} {
					if !c.IsSet(name) {
						return outputError(errors.NewValidationf("%s is required without --area-geojson", name))
					}
				}
				bounds = geo.Bounds{
					LatMin: c.Float64("lat-min"),
					LonMin: c.Float64("lon-min"),
					LatMax: c.Float64("lat-max"),
					LonMax: c.Float64("lon-max"),
				}
			}

			speed := d.Settings.CruiseSpeed
			if c.IsSet("cruise-speed") {
				speed = c.Float64("cruise-speed")
			}

			commands := d.Planner.GridSurvey(bounds).Commands(speed)
			return outputJSON(map[string]any{"commands": commands})
		},
	}
}

// capturesCmd creates the captures command.
func capturesCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "captures",
		Usage: "List survey captures, newest first",
		Action: func(c *cli.Context) error {
			captures := d.Surveys.ListCaptures()
			summaries := make([]survey.CaptureSummary, 0, len(captures))
			for _, capture := range captures {
				summaries = append(summaries, capture.Summary())
			}
			return outputJSON(map[string]any{"captures": summaries})
		},
	}
}

// metricsCmd creates the metrics command.
func metricsCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Show aggregate survey metrics",
		Action: func(c *cli.Context) error {
			return outputJSON(d.Surveys.Metrics())
		},
	}
}

// compareCmd creates the compare command.
func compareCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare asset volumes between two captures",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Required: true, Usage: "Capture id of the earlier survey"},
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Required: true, Usage: "Capture id of the later survey"},
			&cli.StringFlag{Name: "focus-asset", Usage: "Restrict the comparison to one asset id"},
		},
		Action: func(c *cli.Context) error {
			comparison, err := d.Surveys.CompareCaptures(
				c.String("base"), c.String("target"), strings.TrimSpace(c.String("focus-asset")))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"base_capture":      comparison.Base.ID,
				"target_capture":    comparison.Target.ID,
				"asset_differences": comparison.Differences,
				"narrative":         comparison.Narrative,
			})
		},
	}
}

// transactionsCmd creates the transactions command.
func transactionsCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "transactions",
		Usage: "List ledger transactions, most recent first",
		Action: func(c *cli.Context) error {
			transactions := d.Ledger.ListTransactions()
			records := make([]finance.Record, 0, len(transactions))
			for _, transaction := range transactions {
				records = append(records, transaction.Record())
			}
			return outputJSON(map[string]any{"transactions": records})
		},
	}
}

// duplicateCmd creates the duplicate command.
func duplicateCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:      "duplicate",
		Usage:     "Duplicate a ledger transaction under a fresh id",
		ArgsUsage: "<transaction-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description", Usage: "Override the description"},
			&cli.StringFlag{Name: "category", Usage: "Override the category"},
			&cli.Float64Flag{Name: "amount", Usage: "Override the amount"},
			&cli.StringFlag{Name: "occurred-on", Usage: "Override the date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "type", Usage: "Override the transaction type: income|expense"},
			&cli.StringSliceFlag{Name: "meta", Usage: "Replace metadata with key=value pairs (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewValidation("transaction_id is required"))
			}

			raw := map[string]any{}
			if c.IsSet("description") {
				raw["description"] = c.String("description")
			}
			if c.IsSet("category") {
				raw["category"] = c.String("category")
			}
			if c.IsSet("amount") {
				raw["amount"] = c.Float64("amount")
			}
			if c.IsSet("occurred-on") {
				raw["occurred_on"] = c.String("occurred-on")
			}
			if c.IsSet("type") {
				raw["transaction_type"] = c.String("type")
			}
			if pairs := c.StringSlice("meta"); len(pairs) > 0 {
				metadata := map[string]any{}
				for _, pair := range pairs {
					key, value, found := strings.Cut(pair, "=")
					if !found || strings.TrimSpace(key) == "" {
						return outputError(errors.NewValidationf("Metadata flags must be key=value pairs, got '%s'", pair))
					}
					metadata[strings.TrimSpace(key)] = value
				}
				raw["metadata"] = metadata
			}

			overrides, err := finance.ParseOverrides(raw)
			if err != nil {
				return outputError(err)
			}

			transaction, err := d.Ledger.DuplicateTransaction(c.Args().First(), overrides)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(transaction.Record())
		},
	}
}

// snapshotCmd creates the snapshot command.
func snapshotCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Show the ledger grouped into income and expenses",
		Action: func(c *cli.Context) error {
			return outputJSON(d.Ledger.Snapshot())
		},
	}
}

// classifyCmd creates the classify command.
func classifyCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Run the demo asset classifier",
		Action: func(c *cli.Context) error {
			classifications := d.Classifier.Classify(classify.DemoVectors())
			return outputJSON(map[string]any{"classifications": classifications})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(d *deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export asset point clouds from a JSON file to PLY",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "clouds", Aliases: []string{"c"}, Required: true, Usage: "Path to a JSON file mapping asset ids to point lists"},
			&cli.StringFlag{Name: "assets", Usage: "Comma-separated asset ids to export (default: all)"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Destination directory (default: <data>/exports)"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("clouds"))
			if err != nil {
				return outputError(errors.NewValidationf("No point cloud file found at %s", c.String("clouds")))
			}
			var clouds map[string][]pointcloud.Point
			if err := json.Unmarshal(data, &clouds); err != nil {
				return outputError(errors.NewValidation("Point cloud file must be valid JSON"))
			}

			selected := parseList(c.String("assets"))
			if len(selected) == 0 {
				selected = make([]string, 0, len(clouds))
				for asset := range clouds {
					selected = append(selected, asset)
				}
				sort.Strings(selected)
			}

			outputDir := c.String("output-dir")
			if outputDir == "" {
				outputDir = filepath.Join(d.Settings.DataDirectory, "exports")
			}

			paths, err := pointcloud.ExportAssets(selected, clouds, outputDir)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"exported": paths})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var dErr *errors.DroneError
	if stderrors.As(err, &dErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseList splits a comma-separated string into a slice.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if item := strings.TrimSpace(p); item != "" {
			list = append(list, item)
		}
	}
	return list
}
