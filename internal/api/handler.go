package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/model"
	"github.com/alexivanou/meteo-widget/internal/service"
	"github.com/alexivanou/meteo-widget/internal/view"
	"github.com/alexivanou/meteo-widget/internal/weather"
	"github.com/alexivanou/meteo-widget/internal/widget"
	"go.uber.org/zap"
)

const sessionCookie = "widget_session"

// Handler handles HTTP requests
type Handler struct {
	service   service.ServiceInterface
	sessions  *SessionStore
	projector *view.Projector
	widgetCfg config.WidgetConfig
	logger    *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	svc service.ServiceInterface,
	sessions *SessionStore,
	projector *view.Projector,
	widgetCfg config.WidgetConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		service:   svc,
		sessions:  sessions,
		projector: projector,
		widgetCfg: widgetCfg,
		logger:    logger,
	}
}

// WeatherResponse is the body of a successful stateless lookup
type WeatherResponse struct {
	Snapshot model.WeatherSnapshot `json:"snapshot"`
	View     view.ViewModel        `json:"view"`
}

// StateResponse describes a session widget
type StateResponse struct {
	Query string         `json:"query"`
	State widget.State   `json:"state"`
	View  view.ViewModel `json:"view"`
}

type searchRequest struct {
	City string `json:"city"`
}

// session returns the caller's widget, creating a session when needed
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*widget.Widget, bool) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if wd, ok := h.sessions.Get(c.Value); ok {
			return wd, false
		}
	}

	id, wd := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return wd, true
}

// submit runs a lookup that completes even if the client goes away
func (h *Handler) submit(r *http.Request, wd *widget.Widget) widget.State {
	return wd.Submit(context.WithoutCancel(r.Context()))
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	wd, isNew := h.session(w, r)

	if r.URL.Query().Has("city") {
		wd.SetQuery(r.URL.Query().Get("city"))
		h.submit(r, wd)
	} else if isNew && h.widgetCfg.LookupOnStart {
		h.submit(r, wd)
	}

	page := view.Page{
		Query: wd.Query(),
		View:  h.projector.Project(wd.State()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.RenderPage(w, page); err != nil {
		h.logger.Error("Error rendering page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Search handles POST /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	wd, _ := h.session(w, r)
	wd.SetQuery(r.PostFormValue("city"))
	h.submit(r, wd)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetState handles GET /api/v1/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	wd, _ := h.session(w, r)
	h.writeState(w, wd)
}

// SearchJSON handles POST /api/v1/search
func (h *Handler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wd, _ := h.session(w, r)
	wd.SetQuery(req.City)
	h.submit(r, wd)
	h.writeState(w, wd)
}

// GetWeather handles GET /api/v1/weather
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("q")

	snapshot, err := h.service.Lookup(r.Context(), city)
	if err != nil {
		h.writeError(w, statusFor(err), weather.UserMessage(err))
		return
	}

	h.writeJSON(w, http.StatusOK, WeatherResponse{
		Snapshot: snapshot,
		View:     h.projector.Project(widget.Loaded(snapshot)),
	})
}

// ListEvents handles GET /api/v1/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
	}

	events, err := h.service.RecentEvents(r.Context(), limit)
	if err != nil {
		h.logger.Error("Error listing fetch events", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeState(w http.ResponseWriter, wd *widget.Widget) {
	state := wd.State()
	h.writeJSON(w, http.StatusOK, StateResponse{
		Query: wd.Query(),
		State: state,
		View:  h.projector.Project(state),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

func statusFor(err error) int {
	switch weather.KindOf(err) {
	case weather.KindValidation:
		return http.StatusBadRequest
	case weather.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
