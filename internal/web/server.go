package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aboldguess/Nerfdrone/internal/deck"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed templates/field_guide.md
var fieldGuideMarkdown string

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the control centre.
func NewServer(d *deck.Deck, version, bind string, port int) *http.Server {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-FS: %v", err)
	}

	renderer := NewRenderer(templateSub, version)

	h, err := NewHandlers(d, renderer)
	if err != nil {
		log.Fatalf("failed to assemble handlers: %v", err)
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleDashboard)
	mux.HandleFunc("POST /plan-route", h.HandlePlanRoute)
	mux.HandleFunc("POST /dispatch-route", h.HandleDispatchRoute)
	mux.HandleFunc("POST /ingest-footage", h.HandleIngestFootage)
	mux.HandleFunc("GET /classify-demo", h.HandleClassifyDemo)
	mux.HandleFunc("GET /survey-days", h.HandleSurveyDays)
	mux.HandleFunc("POST /compare-captures", h.HandleCompareCaptures)
	mux.HandleFunc("POST /annotate-asset", h.HandleAnnotateAsset)
	mux.HandleFunc("POST /reconstruct", h.HandleReconstruct)
	mux.HandleFunc("GET /finance/transactions", h.HandleListTransactions)
	mux.HandleFunc("POST /finance/duplicate", h.HandleDuplicateTransaction)
	mux.HandleFunc("GET /finance/snapshot", h.HandleFinanceSnapshot)

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	// Wrap with security headers
	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Nerfdrone control centre running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
