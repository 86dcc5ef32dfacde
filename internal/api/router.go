package api

import (
	"ecomap-score-service/internal/api/handlers"
	"ecomap-score-service/internal/ports"
	"ecomap-score-service/internal/services"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Dependencies struct {
	Evaluator   *services.Evaluator
	Analyst     *services.Analyst
	Challenge   *services.ChallengeGenerator
	Board       *services.PlacementBoard
	Publisher   ports.ScorePublisher
	Limiter     *RateLimiter
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Dependencies) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	scores := &handlers.ScoreHandler{Evaluator: d.Evaluator, Publisher: d.Publisher}
	analysis := &handlers.AnalysisHandler{Analyst: d.Analyst, Challenge: d.Challenge}
	sims := &handlers.SimulationHandler{Board: d.Board, Publisher: d.Publisher}

	r := mux.NewRouter()
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/ecoscore", scores.Rubric).Methods(http.MethodPost)
	a.Handle("/calculate-ecoscore", d.Limiter.Limit("calculate-ecoscore", http.HandlerFunc(scores.Evaluate))).Methods(http.MethodPost)
	a.Handle("/gemini", d.Limiter.Limit("gemini", http.HandlerFunc(analysis.Analyze))).Methods(http.MethodPost)
	a.Handle("/generate-challenge-coords", d.Limiter.Limit("generate-challenge-coords", http.HandlerFunc(analysis.GenerateChallenge))).Methods(http.MethodPost)

	a.HandleFunc("/simulations", sims.Start).Methods(http.MethodPost)
	a.HandleFunc("/simulations/{id}", sims.Get).Methods(http.MethodGet)
	a.HandleFunc("/simulations/{id}", sims.Discard).Methods(http.MethodDelete)
	a.HandleFunc("/simulations/{id}/placements", sims.Place).Methods(http.MethodPost)
	a.HandleFunc("/simulations/{id}/reset", sims.Reset).Methods(http.MethodPost)
	a.HandleFunc("/simulations/{id}/score", sims.Score).Methods(http.MethodPost)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		gorillahandlers.ExposedHeaders([]string{"X-Request-ID", "Retry-After"}),
	)

	return requestIDMiddleware(loggingMiddleware(d.Logger)(cors(r)))
}
