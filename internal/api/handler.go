package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"stockboard/config"
	"stockboard/internal/app"
	"stockboard/services"

	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// HandleHealth returns the health status of the service, including the state
// of each provider circuit breaker.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "ok",
		"provider": h.app.ProviderName(),
		"breakers": services.GetGlobalRegistry().Status(),
	}

	h.jsonResponse(w, status)
}

// HandleGetDashboard returns the current dashboard state
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Dashboard())
}

// HandleGetStock returns the stored analysis record for one symbol
func (h *Handler) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbolParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, ok := h.app.Analysis(symbol)
	if !ok {
		h.jsonError(w, fmt.Sprintf("no analysis for %s; refresh it first", symbol), http.StatusNotFound)
		return
	}

	h.jsonResponse(w, rec)
}

// HandleRefreshStock refreshes one symbol and returns the new record. A load
// failure still returns 200 with the load-failed record.
func (h *Handler) HandleRefreshStock(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbolParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := h.app.RefreshSymbol(r.Context(), symbol)
	h.jsonResponse(w, rec)
}

// HandleRefreshAll refreshes every watchlisted symbol sequentially
func (h *Handler) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	if err := h.app.RefreshAll(r.Context()); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, h.app.Dashboard())
}

// HandleGetChart returns the chart payload for one symbol
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbolParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chart, err := h.app.ChartData(symbol)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	h.jsonResponse(w, chart)
}

// HandleGetNews returns recent articles for one symbol
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbolParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	articles, err := h.app.News(r.Context(), symbol)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.jsonResponse(w, articles)
}

// HandleGetQuote returns the latest quote for one symbol
func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol, err := h.symbolParam(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	quote, err := h.app.Quote(r.Context(), symbol)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.jsonResponse(w, quote)
}

// Helper functions

var symbolPattern = regexp.MustCompile("^[A-Z0-9.-]+$")

// symbolParam extracts, normalizes, and validates the {symbol} URL parameter.
func (h *Handler) symbolParam(r *http.Request) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))

	if symbol == "" {
		return "", fmt.Errorf("symbol is required")
	}
	if len(symbol) > 10 {
		return "", fmt.Errorf("symbol too long (max 10 characters)")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", fmt.Errorf("invalid symbol format (alphanumeric, dots, and dashes only)")
	}

	return symbol, nil
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
