// Package api implements the reference REST shape around the packing
// core and its task dispatcher: plain net/http and encoding/json, no
// router framework.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/piwi3910/palletpack/internal/catalog"
	"github.com/piwi3910/palletpack/internal/engine"
	"github.com/piwi3910/palletpack/internal/model"
	"github.com/piwi3910/palletpack/internal/task"
	"github.com/piwi3910/palletpack/internal/validate"
)

// Version is the server's reported API version (GET /).
const Version = "1.0.0"

// Server wires the dispatcher, validator ranges, and HTTP routes.
type Server struct {
	dispatcher *task.Dispatcher
	ranges     validate.Ranges
	log        *slog.Logger
}

// NewServer builds a Server with a fresh Dispatcher.
func NewServer(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		dispatcher: task.New(log),
		ranges:     validate.DefaultRanges(),
		log:        log,
	}
}

// Routes returns the mux with every §6.2 endpoint registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /methods", s.handleMethods)
	mux.HandleFunc("GET /standard-boxes", s.handleStandardBoxes)
	mux.HandleFunc("POST /pack", s.handlePack)
	mux.HandleFunc("GET /status/{id}", s.handleStatus)
	mux.HandleFunc("GET /result/{id}", s.handleResult)
	mux.HandleFunc("DELETE /task/{id}", s.handleDeleteTask)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "palletpack API",
		"version": Version,
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

var displayNames = map[engine.Variant]string{
	engine.WeightAware:  "Weight-Aware",
	engine.ExtremePoint: "Extreme-Points",
	engine.LAFF:         "Largest-Area-Fit-First",
	engine.CornerPoint:  "Corner-Points",
	engine.SFC:          "Space-Filling-Curve",
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	methods := make([]string, 0, len(engine.Variants()))
	for _, v := range engine.Variants() {
		methods = append(methods, displayNames[v])
	}
	writeJSON(w, http.StatusOK, map[string][]string{"methods": methods})
}

func (s *Server) handleStandardBoxes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"boxes":   catalog.StandardBoxes(),
		"pallets": []catalog.PalletPreset{catalog.StandardPallet()},
	})
}

// packRequestBox mirrors one entry of §6.2's POST /pack `boxes` array.
type packRequestBox struct {
	Name      string  `json:"name"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Quantity  int     `json:"quantity"`
	Fragile   bool    `json:"fragile,omitempty"`
	Stackable bool    `json:"stackable,omitempty"`
}

// packRequestPallet mirrors §6.2's `pallet` object. The wire field named
// "length" maps to the pallet's depth axis — §6.2's own naming, kept
// as-is rather than renamed to avoid diverging from the documented shape.
type packRequestPallet struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	MaxWeight float64 `json:"max_weight"`
}

type packRequest struct {
	Pallet             packRequestPallet `json:"pallet"`
	Boxes              []packRequestBox  `json:"boxes"`
	Method             string            `json:"method"`
	SupportThreshold   float64           `json:"support_threshold"`
	WeightCheckEnabled *bool             `json:"weight_check_enabled"`
}

type packResponse struct {
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, []validate.Issue{{
			Type: "body", Field: "body", Message: "request body is not valid JSON",
		}})
		return
	}

	palletInput := validate.PalletInput{
		Width: req.Pallet.Width, Depth: req.Pallet.Length,
		Height: req.Pallet.Height, MaxWeight: req.Pallet.MaxWeight,
	}
	boxInputs := make([]validate.BoxInput, 0, len(req.Boxes))
	for _, b := range req.Boxes {
		boxInputs = append(boxInputs, validate.BoxInput{
			Name: b.Name, Length: b.Length, Width: b.Width, Height: b.Height, Weight: b.Weight,
		})
	}

	result := validate.ValidateRequest(palletInput, boxInputs, s.ranges)
	if !result.IsValid {
		writeJSON(w, http.StatusBadRequest, result.Errors)
		return
	}

	variant := engine.Variant(req.Method)
	if req.Method == "" {
		variant = engine.WeightAware
	}

	opts := engine.DefaultOptions()
	if req.SupportThreshold > 0 {
		opts.SupportThreshold = req.SupportThreshold
	}
	if req.WeightCheckEnabled != nil {
		opts.WeightCheckEnabled = *req.WeightCheckEnabled
	}

	var boxes []model.Box
	for _, b := range req.Boxes {
		qty := b.Quantity
		if qty < 1 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			box := model.NewBox(b.Length, b.Width, b.Height, b.Weight)
			boxes = append(boxes, box)
		}
	}

	rec := s.dispatcher.Submit(task.Request{
		Pallet: model.Pallet{
			Width: req.Pallet.Width, Depth: req.Pallet.Length,
			Height: req.Pallet.Height, MaxWeight: req.Pallet.MaxWeight,
		},
		Boxes:   boxes,
		Variant: variant,
		Options: opts,
	})

	writeJSON(w, http.StatusOK, packResponse{
		TaskID:    rec.ID,
		Status:    string(task.StatusPending),
		CreatedAt: rec.CreatedAt,
	})
}

type statusResponse struct {
	TaskID      string     `json:"task_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := s.dispatcher.Status(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	resp := statusResponse{
		TaskID:    rec.ID,
		Status:    string(rec.Status),
		CreatedAt: rec.CreatedAt,
		Error:     rec.Error,
	}
	if !rec.CompletedAt.IsZero() {
		resp.CompletedAt = &rec.CompletedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := s.dispatcher.Status(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch rec.Status {
	case task.StatusPending, task.StatusProcessing:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": string(rec.Status)})
	case task.StatusFailed:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": rec.Error})
	default:
		writeJSON(w, http.StatusOK, buildResultPayload(rec))
	}
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.dispatcher.Delete(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Задача удалена"})
}
