package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aboldguess/Nerfdrone/internal/config"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{
		Environment:     "test",
		DataDirectory:   t.TempDir(),
		InterfaceHost:   "127.0.0.1",
		InterfacePort:   8000,
		PlannerAltitude: 50.0,
		PlannerSpacing:  0.0003,
		CruiseSpeed:     6.5,
		PlanCacheSize:   16,
	}
}

func TestNew_AssemblesDemoDeck(t *testing.T) {
	settings := testSettings(t)

	d, err := New(settings)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(d.Surveys.ListCaptures()) != 2 {
		t.Errorf("captures = %d, want demo pair", len(d.Surveys.ListCaptures()))
	}
	if len(d.Ledger.ListTransactions()) != 4 {
		t.Errorf("transactions = %d, want demo set", len(d.Ledger.ListTransactions()))
	}

	providers := d.Fleet.Providers()
	if len(providers) != 1 || providers[0] != "dji" {
		t.Errorf("providers = %v, want [dji]", providers)
	}

	if d.Planner.Altitude != 50.0 || d.Planner.Spacing != 0.0003 {
		t.Errorf("planner = %+v", d.Planner)
	}
	if len(d.Classifier.Labels()) != 6 {
		t.Errorf("labels = %v", d.Classifier.Labels())
	}
	if len(d.Feed.Messages()) != 2 {
		t.Errorf("feed = %v", d.Feed.Messages())
	}
	if d.Ingestor == nil || d.Pipeline == nil {
		t.Error("collaborators missing from deck")
	}
}

func TestNew_UsesConfiguredDirectories(t *testing.T) {
	settings := testSettings(t)

	if _, err := New(settings); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, dir := range []string{
		filepath.Join(settings.DataDirectory, "videos"),
		filepath.Join(settings.DataDirectory, "nerf_outputs"),
	} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %q: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%q is not a directory", dir)
		}
	}
}
