// Package reconstruct orchestrates photogrammetry reconstruction jobs.
// Training runs through nerfstudio where available; hosts without it still
// produce structured placeholder artefacts so the rest of the workflow can
// be exercised.
package reconstruct

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

const (
	notesEngine      = "Reconstruction executed via nerfstudio"
	notesPlaceholder = "nerfstudio not installed; generated placeholder artefacts"
)

// Result summarises a reconstruction job.
type Result struct {
	JobID           string `json:"job_id"`
	OutputDirectory string `json:"output_directory"`
	FramesProcessed int    `json:"frames_processed"`
	Notes           string `json:"notes"`
}

// Engine runs the heavy training step of a reconstruction job.
type Engine interface {
	Train(ctx context.Context, videoPath, outputDir string) error
}

// NewNerfstudioEngine looks up the ns-train binary once and returns an
// engine backed by it. The boolean reports whether the binary was found;
// callers pass a nil engine to run in placeholder mode.
func NewNerfstudioEngine() (Engine, bool) {
	binary, err := exec.LookPath("ns-train")
	if err != nil {
		return nil, false
	}
	return &nerfstudioEngine{binary: binary}, true
}

type nerfstudioEngine struct {
	binary string
}

func (e *nerfstudioEngine) Train(ctx context.Context, videoPath, outputDir string) error {
	cmd := exec.CommandContext(ctx, e.binary, "nerfacto",
		"--data", videoPath,
		"--output-dir", outputDir,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ns-train failed: %w: %s", err, bytes.TrimSpace(output))
	}
	return nil
}

// Pipeline is the high-level interface for running reconstructions into a
// fixed workspace directory.
type Pipeline struct {
	workspace string
	engine    Engine
}

// NewPipeline creates the workspace directory and returns a pipeline. A nil
// engine selects placeholder mode.
func NewPipeline(workspace string, engine Engine) (*Pipeline, error) {
	if err := os.MkdirAll(workspace, 0700); err != nil {
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to create reconstruction workspace: %w", err))
	}
	return &Pipeline{workspace: workspace, engine: engine}, nil
}

type summary struct {
	Video           string `json:"video"`
	FramesProcessed int    `json:"frames_processed"`
	Notes           string `json:"notes"`
}

// Reconstruct trains a scene from the footage and writes a summary.json
// into the job's output directory, named after the video stem. Every job
// gets a fresh id regardless of whether the engine ran.
func (p *Pipeline) Reconstruct(ctx context.Context, videoPath string) (*Result, error) {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputDir := filepath.Join(p.workspace, stem)
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	notes := notesPlaceholder
	if p.engine != nil {
		if err := p.engine.Train(ctx, videoPath, outputDir); err != nil {
			return nil, droneerrors.NewInternal(err)
		}
		notes = notesEngine
	}

	data, err := json.MarshalIndent(summary{
		Video:           videoPath,
		FramesProcessed: 0,
		Notes:           notes,
	}, "", "  ")
	if err != nil {
		return nil, droneerrors.NewInternal(err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "summary.json"), data, 0600); err != nil {
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to write job summary: %w", err))
	}

	return &Result{
		JobID:           uuid.New().String(),
		OutputDirectory: outputDir,
		FramesProcessed: 0,
		Notes:           notes,
	}, nil
}
