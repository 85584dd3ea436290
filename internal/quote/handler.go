package quote

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// Handler handles HTTP requests for quote requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new quote handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/quotes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	q, err := h.service.Create(in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to create quote request", err.Error())
		return
	}

	logger.Info(r.Context()).Uint("quote_id", q.ID).Str("type", q.InsuranceType).Msg("Quote request received")
	response.Created(w, "Quote request received", q)
}

// Get handles GET /api/quotes/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(id)
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Quote request not found", "")
		return
	}
	response.OK(w, "", q)
}

// List handles GET /api/quotes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	quotes, err := h.service.List(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list quote requests")
		response.Fail(w, http.StatusInternalServerError, "Failed to list quote requests", "")
		return
	}
	response.OK(w, "", map[string]interface{}{"quotes": quotes, "total": len(quotes)})
}

// UpdateStatus handles PUT /api/quotes/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	q, err := h.service.UpdateStatus(id, body.Status)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to update quote status", err.Error())
		return
	}
	response.OK(w, "Quote status updated", q)
}

// Delete handles DELETE /api/quotes/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		response.Fail(w, http.StatusNotFound, "Quote request not found", "")
		return
	}
	response.OK(w, "Quote request deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid quote ID", "")
		return 0, false
	}
	return uint(id), true
}

// RegisterRoutes registers all quote routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/quotes", h.Create).Methods("POST")
	router.HandleFunc("/api/quotes", middleware.Admin(h.List)).Methods("GET")
	router.HandleFunc("/api/quotes/{id:[0-9]+}", middleware.Admin(h.Get)).Methods("GET")
	router.HandleFunc("/api/quotes/{id:[0-9]+}/status", middleware.Admin(h.UpdateStatus)).Methods("PUT")
	router.HandleFunc("/api/quotes/{id:[0-9]+}", middleware.Admin(h.Delete)).Methods("DELETE")
}
