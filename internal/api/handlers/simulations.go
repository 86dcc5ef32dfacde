package handlers

import (
	"ecomap-score-service/internal/api/dto"
	"ecomap-score-service/internal/domain"
	"ecomap-score-service/internal/ports"
	"ecomap-score-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// SimulationHandler exposes the placement board: a server-side session that
// records clicks inside a drawn area and scores the result.
type SimulationHandler struct {
	Board     *services.PlacementBoard
	Publisher ports.ScorePublisher
}

func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartSimulationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	boundary := domain.NewBoundary(req.Boundary...)
	id, err := h.Board.Start(r.Context(), boundary)
	if err != nil {
		writeServiceError(w, r, "start simulation", err)
		return
	}

	w.Header().Set("Location", "/api/simulations/"+id)
	writeJSON(w, r, http.StatusCreated, simulationResponse(id, boundary, emptyData()))
}

func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.Board.Session(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "snapshot simulation", err)
		return
	}

	writeJSON(w, r, http.StatusOK, simulationResponse(id, session.Boundary, session.Data))
}

func (h *SimulationHandler) Place(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.PlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, r, http.StatusBadRequest, "lat and lng are required")
		return
	}

	at := domain.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	session, err := h.Board.Place(r.Context(), id, req.Mode, at, req.Count)
	if err != nil {
		writeServiceError(w, r, "place", err)
		return
	}

	writeJSON(w, r, http.StatusOK, simulationResponse(id, session.Boundary, session.Data))
}

func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.Board.Reset(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "reset simulation", err)
		return
	}

	writeJSON(w, r, http.StatusOK, simulationResponse(id, session.Boundary, session.Data))
}

func (h *SimulationHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Board.Discard(r.Context(), id); err != nil {
		writeServiceError(w, r, "discard simulation", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Score snapshots the session and runs the rubric on it.
func (h *SimulationHandler) Score(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.Board.Snapshot(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "score simulation", err)
		return
	}

	res := services.ScoreSimulation(data)
	recordRubricScore(res)
	publishScore(r.Context(), h.Publisher, ports.ScoreEvent{
		SessionID:  id,
		Strategy:   "rubric",
		Score:      res.TotalScore,
		Placements: data.PlacementCount(),
	})

	writeJSON(w, r, http.StatusOK, res)
}

func simulationResponse(id string, boundary domain.Boundary, data domain.SimulationData) dto.SimulationResponse {
	n := data.PlacementCount()
	return dto.SimulationResponse{
		ID:             id,
		Boundary:       boundary.Vertices,
		SimulationData: data,
		PlacementCount: n,
		Remaining:      max(services.MaxPlacements-n, 0),
	}
}

func emptyData() domain.SimulationData {
	return domain.SimulationData{
		TreeClusters:         []domain.PointCluster{},
		SolarClusters:        []domain.PointCluster{},
		PlacedPavementPoints: []domain.PointPlacement{},
		PlacedParks:          []domain.PointPlacement{},
	}
}
