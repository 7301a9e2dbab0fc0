// Package deck assembles the control centre's components once at startup
// and hands the bundle to the web, MCP, and CLI surfaces.
package deck

import (
	"log"

	"github.com/aboldguess/Nerfdrone/internal/activity"
	"github.com/aboldguess/Nerfdrone/internal/classify"
	"github.com/aboldguess/Nerfdrone/internal/config"
	"github.com/aboldguess/Nerfdrone/internal/finance"
	"github.com/aboldguess/Nerfdrone/internal/fleet"
	"github.com/aboldguess/Nerfdrone/internal/ingest"
	"github.com/aboldguess/Nerfdrone/internal/planner"
	"github.com/aboldguess/Nerfdrone/internal/reconstruct"
	"github.com/aboldguess/Nerfdrone/internal/survey"
)

// Deck bundles every component a surface needs. It is constructed once in
// cmd and passed down explicitly; there are no package-level singletons.
type Deck struct {
	Settings   *config.Settings
	Planner    *planner.Planner
	Surveys    *survey.Manager
	Ledger     *finance.Ledger
	Fleet      *fleet.Registry
	Classifier *classify.Classifier
	Ingestor   *ingest.Ingestor
	Pipeline   *reconstruct.Pipeline
	Feed       *activity.Feed
}

// New assembles a demo-seeded deck: the fixed survey captures and ledger
// entries, a simulated dji provider, and collaborators discovered on the
// host (ffprobe, ns-train). Capability gaps are logged once here and the
// affected component degrades gracefully.
func New(settings *config.Settings) (*Deck, error) {
	registry := fleet.NewRegistry()
	fleet.RegisterSimulated(registry, "dji")

	probe, found := ingest.NewFFProbe()
	if !found {
		log.Printf("ffprobe not found; footage metadata extraction disabled")
	}
	ingestor, err := ingest.NewIngestor(settings.VideosDirectory(), probe)
	if err != nil {
		return nil, err
	}

	engine, found := reconstruct.NewNerfstudioEngine()
	if !found {
		log.Printf("ns-train not found; reconstructions will produce placeholder artefacts")
	}
	pipeline, err := reconstruct.NewPipeline(settings.ReconstructionWorkspace(), engine)
	if err != nil {
		return nil, err
	}

	return &Deck{
		Settings:   settings,
		Planner:    planner.New(settings.PlannerAltitude, settings.PlannerSpacing),
		Surveys:    survey.NewManager(),
		Ledger:     finance.NewLedger(),
		Fleet:      registry,
		Classifier: classify.New(),
		Ingestor:   ingestor,
		Pipeline:   pipeline,
		Feed:       activity.NewFeed(0),
	}, nil
}
