package consultation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// Handler handles HTTP requests for consultations.
type Handler struct {
	service *Service
}

// NewHandler creates a new consultation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/consultations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	c, err := h.service.Create(in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to book consultation", err.Error())
		return
	}

	logger.Info(r.Context()).Uint("consultation_id", c.ID).Str("service", c.Service).Msg("Consultation booked")
	response.Created(w, "Consultation booked", c)
}

// Get handles GET /api/consultations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(id)
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Consultation not found", "")
		return
	}
	response.OK(w, "", c)
}

// List handles GET /api/consultations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	consultations, err := h.service.List(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list consultations")
		response.Fail(w, http.StatusInternalServerError, "Failed to list consultations", "")
		return
	}
	response.OK(w, "", map[string]interface{}{"consultations": consultations, "total": len(consultations)})
}

// UpdateStatus handles PUT /api/consultations/{id}/status
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

	c, err := h.service.UpdateStatus(id, body.Status)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to update consultation status", err.Error())
		return
	}
	response.OK(w, "Consultation status updated", c)
}

// Delete handles DELETE /api/consultations/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		response.Fail(w, http.StatusNotFound, "Consultation not found", "")
		return
	}
	response.OK(w, "Consultation deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid consultation ID", "")
		return 0, false
	}
	return uint(id), true
}

// RegisterRoutes registers all consultation routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/consultations", h.Create).Methods("POST")
	router.HandleFunc("/api/consultations", middleware.Admin(h.List)).Methods("GET")
	router.HandleFunc("/api/consultations/{id:[0-9]+}", middleware.Admin(h.Get)).Methods("GET")
	router.HandleFunc("/api/consultations/{id:[0-9]+}/status", middleware.Admin(h.UpdateStatus)).Methods("PUT")
	router.HandleFunc("/api/consultations/{id:[0-9]+}", middleware.Admin(h.Delete)).Methods("DELETE")
}
