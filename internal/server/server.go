// Package server provides the HTTP REST API for the interview preparation
// workflow.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tuanngo/preppath/internal/db"
	"github.com/tuanngo/preppath/internal/llm"
	"github.com/tuanngo/preppath/internal/preparation"
	"github.com/tuanngo/preppath/internal/scan"
	"github.com/tuanngo/preppath/internal/server/middleware"
	"github.com/tuanngo/preppath/internal/types"
)

// PreparationService is the orchestrator surface the handlers depend on.
type PreparationService interface {
	SubmitJD(ctx context.Context, userID uuid.UUID, input preparation.JDInput) (*types.JDAnalysis, *types.Preparation, error)
	DiagnosticQuestions(ctx context.Context, userID, prepID uuid.UUID, source scan.Source) ([]types.DisplayQuestion, error)
	SubmitDiagnostic(ctx context.Context, userID, prepID uuid.UUID, answers []scan.Answer) (*types.DiagnosticResult, error)
	ResetDiagnostic(ctx context.Context, userID, prepID uuid.UUID) error
	CreateRoadmap(ctx context.Context, userID, prepID uuid.UUID) (*types.Roadmap, error)
	RehearsalQuestions(ctx context.Context, userID, prepID uuid.UUID, limit int) ([]types.RehearsalQuestion, error)
	Get(ctx context.Context, userID, prepID uuid.UUID) (*types.Preparation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Preparation, error)
	Roadmap(ctx context.Context, userID, prepID uuid.UUID) (*types.Roadmap, error)
	Analysis(ctx context.Context, userID, prepID uuid.UUID) (*types.JDAnalysis, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	llmClient  llm.Client
	service    PreparationService
	validator  *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port          int
	DatabaseURL   string
	GeminiAPIKey  string
	JWTSecret     string
	QuestionLimit int
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		// Without a generation backend the workflow still runs on its
		// documented fallbacks.
		log.Printf("generation backend unavailable, running degraded: %v", err)
		client = llm.Unavailable()
	}

	service := preparation.NewService(database, client, database, database, cfg.QuestionLimit)

	s := &Server{
		db:        database,
		llmClient: client,
		service:   service,
		validator: validator.New(),
	}

	handler := s.routes(NewJWTService(cfg.JWTSecret))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation-backed endpoints are slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// routes assembles the router: /health is public, everything else sits behind
// the bearer-token middleware.
func (s *Server) routes(jwtService *JWTService) http.Handler {
	authed := http.NewServeMux()
	authed.HandleFunc("POST /analysis/submit", s.handleSubmitJD)
	authed.HandleFunc("GET /preparations", s.handleListPreparations)
	authed.HandleFunc("GET /preparations/{id}", s.handleGetPreparation)
	authed.HandleFunc("GET /preparations/{id}/jd-analysis", s.handleGetAnalysis)
	authed.HandleFunc("GET /preparations/{id}/memory-scan-questions", s.handleMemoryScanQuestions)
	authed.HandleFunc("POST /preparations/{id}/memory-scan/submit", s.handleMemoryScanSubmit)
	authed.HandleFunc("POST /preparations/{id}/memory-scan/reset", s.handleMemoryScanReset)
	authed.HandleFunc("POST /preparations/{id}/roadmap", s.handleCreateRoadmap)
	authed.HandleFunc("GET /preparations/{id}/roadmap", s.handleGetRoadmap)
	authed.HandleFunc("GET /preparations/{id}/self-check-questions", s.handleSelfCheckQuestions)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/", middleware.Auth(jwtService)(authed))

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs request timing
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service error onto the HTTP response.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
