package register

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/register"
)

type Handler struct {
	svc *register.Service
}

func NewHandler(svc *register.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the document register under a documents prefix.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{kind}", h.list)
	r.Get("/{kind}/summary", h.summary)
	r.Get("/{kind}/{id}/code", h.code)
}

// QuoteRoutes mounts quote totals under a quotes prefix.
func (h *Handler) QuoteRoutes(r chi.Router) {
	r.Get("/{id}/totals", h.totals)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	key, fallback, ok := groupFromRequest(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.List(r.Context(), key, fallback)
	if err != nil {
		slog.Error("failed to list documents", "group", key.String(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toEntryResponseList(entries)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	key, fallback, ok := groupFromRequest(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.List(r.Context(), key, fallback)
	if err != nil {
		slog.Error("failed to list documents", "group", key.String(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(h.svc.Summary(entries))); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}

func (h *Handler) code(w http.ResponseWriter, r *http.Request) {
	kind, err := document.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	fallback, err := optionalUUID(r, "fallback_event_id")
	if err != nil {
		http.Error(w, "invalid fallback_event_id", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Resolve(r.Context(), kind, id, fallback)
	if err != nil {
		if errors.Is(err, register.ErrNotFound) {
			http.Error(w, string(kind)+" not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to resolve code", "kind", kind, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toEntryResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	qt, err := h.svc.QuoteTotals(r.Context(), id)
	if err != nil {
		if errors.Is(err, register.ErrNotFound) {
			http.Error(w, "quote not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to compute totals", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toTotalsResponse(qt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// groupFromRequest reads the group of a list request. event_id wins over
// client_id; with neither, the unassigned documents of the kind are listed.
// It writes a 400 and returns false on bad input.
func groupFromRequest(w http.ResponseWriter, r *http.Request) (document.GroupKey, *uuid.UUID, bool) {
	kind, err := document.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return document.GroupKey{}, nil, false
	}

	eventID, err := optionalUUID(r, "event_id")
	if err != nil {
		http.Error(w, "invalid event_id", http.StatusBadRequest)
		return document.GroupKey{}, nil, false
	}

	clientID, err := optionalUUID(r, "client_id")
	if err != nil {
		http.Error(w, "invalid client_id", http.StatusBadRequest)
		return document.GroupKey{}, nil, false
	}

	fallback, err := optionalUUID(r, "fallback_event_id")
	if err != nil {
		http.Error(w, "invalid fallback_event_id", http.StatusBadRequest)
		return document.GroupKey{}, nil, false
	}

	key := document.GroupKey{Kind: kind}

	switch {
	case eventID != nil:
		key = document.ForEvent(kind, *eventID)
	case clientID != nil:
		key = document.ForClient(kind, *clientID)
	}

	return key, fallback, true
}

func optionalUUID(r *http.Request, name string) (*uuid.UUID, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}

	return &id, nil
}
