package outsourcing

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// Handler handles HTTP requests for outsourcing enquiries.
type Handler struct {
	service *Service
}

// NewHandler creates a new outsourcing handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/outsourcing
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	req, err := h.service.Create(in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to create outsourcing request", err.Error())
		return
	}

	logger.Info(r.Context()).Uint("request_id", req.ID).Str("company", req.CompanyName).Msg("Outsourcing enquiry received")
	response.Created(w, "Outsourcing request received", req)
}

// Get handles GET /api/outsourcing/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, err := h.service.Get(id)
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Outsourcing request not found", "")
		return
	}
	response.OK(w, "", req)
}

// List handles GET /api/outsourcing
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	requests, err := h.service.List(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list outsourcing requests")
		response.Fail(w, http.StatusInternalServerError, "Failed to list outsourcing requests", "")
		return
	}
	response.OK(w, "", map[string]interface{}{"requests": requests, "total": len(requests)})
}

// UpdateStatus handles PUT /api/outsourcing/{id}/status
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

	req, err := h.service.UpdateStatus(id, body.Status)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to update outsourcing status", err.Error())
		return
	}
	response.OK(w, "Outsourcing status updated", req)
}

// Delete handles DELETE /api/outsourcing/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		response.Fail(w, http.StatusNotFound, "Outsourcing request not found", "")
		return
	}
	response.OK(w, "Outsourcing request deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request ID", "")
		return 0, false
	}
	return uint(id), true
}

// RegisterRoutes registers all outsourcing routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/outsourcing", h.Create).Methods("POST")
	router.HandleFunc("/api/outsourcing", middleware.Admin(h.List)).Methods("GET")
	router.HandleFunc("/api/outsourcing/{id:[0-9]+}", middleware.Admin(h.Get)).Methods("GET")
	router.HandleFunc("/api/outsourcing/{id:[0-9]+}/status", middleware.Admin(h.UpdateStatus)).Methods("PUT")
	router.HandleFunc("/api/outsourcing/{id:[0-9]+}", middleware.Admin(h.Delete)).Methods("DELETE")
}
