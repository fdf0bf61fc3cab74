package rates

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/planora/internal/currency"
)

type Handler struct {
	svc *currency.Service
}

func NewHandler(svc *currency.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importRates)
	r.Get("/{currency}", h.get)
}

type rateResponse struct {
	Currency   string          `json:"currency"`
	Base       string          `json:"base"`
	Rate       decimal.Decimal `json:"rate"`
	ObservedOn *time.Time      `json:"observed_on,omitempty"`
}

type importResponse struct {
	Profile  string `json:"profile"`
	Charset  string `json:"charset"`
	Parsed   int    `json:"parsed"`
	Imported int    `json:"imported"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.Latest(r.Context(), chi.URLParam(r, "currency"))
	if err != nil {
		if errors.Is(err, currency.ErrRateNotFound) {
			http.Error(w, "rate not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to get rate", "currency", chi.URLParam(r, "currency"), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := rateResponse{
		Currency: rate.Currency,
		Base:     h.svc.Base(),
		Rate:     rate.Value,
	}

	if !rate.ObservedOn.IsZero() {
		resp.ObservedOn = &rate.ObservedOn
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) importRates(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), file)
	if err != nil {
		if errors.Is(err, currency.ErrUnreadableFile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to import rates", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{
		Profile:  result.Profile,
		Charset:  result.Charset,
		Parsed:   result.Parsed,
		Imported: result.Imported,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
