package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"home-automation/internal/application"
	"home-automation/internal/domain"
)

// AutomationService is the sync layer surface the API depends on.
type AutomationService interface {
	List(ctx context.Context, conn *application.HubConnection, mode application.Mode) ([]domain.AutomationSummary, error)
	Create(ctx context.Context, conn *application.HubConnection, mode application.Mode, draft domain.AutomationDraft) error
	Update(ctx context.Context, conn *application.HubConnection, mode application.Mode, draft domain.AutomationDraft) error
	Delete(ctx context.Context, conn *application.HubConnection, mode application.Mode, id string) application.Outcome
	SetEnabled(ctx context.Context, conn *application.HubConnection, mode application.Mode, id string, enabled bool) application.Outcome
}

// CapabilityCatalog resolves the trigger/action kinds offered per device type.
type CapabilityCatalog interface {
	Capabilities(deviceType string) (domain.DeviceCapabilities, bool)
	DeviceTypes() []string
}

type Server struct {
	svc     AutomationService
	catalog CapabilityCatalog
	conn    *application.HubConnection
}

func NewServer(svc AutomationService, catalog CapabilityCatalog, conn *application.HubConnection) *Server {
	return &Server{svc: svc, catalog: catalog, conn: conn}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/automations", s.handleList)
	r.Post("/automations", s.handleCreate)
	r.Put("/automations/{id}", s.handleUpdate)
	r.Delete("/automations/{id}", s.handleDelete)
	r.Post("/automations/{id}/enabled", s.handleSetEnabled)
	r.Get("/catalog", s.handleCatalogIndex)
	r.Get("/catalog/{deviceType}", s.handleCatalog)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
}

func (s *Server) mode(r *http.Request) application.Mode {
	return application.ParseMode(r.URL.Query().Get("mode"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.List(r.Context(), s.conn, s.mode(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft domain.AutomationDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid automation payload"})
		return
	}

	if err := s.svc.Create(r.Context(), s.conn, s.mode(r), draft); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var draft domain.AutomationDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid automation payload"})
		return
	}
	if draft.ID == "" {
		draft.ID = chi.URLParam(r, "id")
	}

	if err := s.svc.Update(r.Context(), s.conn, s.mode(r), draft); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	outcome := s.svc.Delete(r.Context(), s.conn, s.mode(r), chi.URLParam(r, "id"))
	writeOutcome(w, outcome)
}

func (s *Server) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	outcome := s.svc.SetEnabled(r.Context(), s.conn, s.mode(r), chi.URLParam(r, "id"), body.Enabled)
	writeOutcome(w, outcome)
}

// writeOutcome maps best-effort writes: a not-handled outcome is reported as
// 202 with the cause, leaving the retry decision to the UI.
func writeOutcome(w http.ResponseWriter, outcome application.Outcome) {
	if outcome.Handled {
		writeJSON(w, http.StatusOK, map[string]any{"handled": true})
		return
	}

	resp := map[string]any{"handled": false}
	if outcome.Cause != nil {
		resp["error"] = outcome.Cause.Error()
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleCatalogIndex(w http.ResponseWriter, _ *http.Request) {
	types := s.catalog.DeviceTypes()
	sort.Strings(types)
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	caps, ok := s.catalog.Capabilities(chi.URLParam(r, "deviceType"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown device type"})
		return
	}
	writeJSON(w, http.StatusOK, caps)
}
