package resource

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// Handler handles HTTP requests for the resource library.
type Handler struct {
	service *Service
}

// NewHandler creates a new resource handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/resources
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	res, err := h.service.Create(in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to create resource", err.Error())
		return
	}

	logger.Info(r.Context()).Str("resource_id", res.ID).Str("category", res.Category).Msg("Resource created")
	response.Created(w, "Resource created", res)
}

// Get handles GET /api/resources/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Get(mux.Vars(r)["id"])
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Resource not found", "")
		return
	}
	response.OK(w, "", res)
}

// List handles GET /api/resources
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resources, err := h.service.List(r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list resources")
		response.Fail(w, http.StatusInternalServerError, "Failed to list resources", "")
		return
	}
	response.OK(w, "", map[string]interface{}{"resources": resources, "total": len(resources)})
}

// Download handles POST /api/resources/{id}/download
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RecordDownload(mux.Vars(r)["id"])
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Resource not found", "")
		return
	}
	response.OK(w, "Download recorded", map[string]interface{}{
		"url":       res.URL,
		"downloads": res.Downloads,
	})
}

// GetStats handles GET /api/resources/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute resource stats")
		response.Fail(w, http.StatusInternalServerError, "Failed to compute resource stats", "")
		return
	}
	response.OK(w, "", stats)
}

// Delete handles DELETE /api/resources/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(mux.Vars(r)["id"]); err != nil {
		response.Fail(w, http.StatusNotFound, "Resource not found", "")
		return
	}
	response.OK(w, "Resource deleted", nil)
}

// RegisterRoutes registers all resource routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// The library is public to read; uploads and deletes are admin only.
	router.HandleFunc("/api/resources", middleware.Admin(h.Create)).Methods("POST")
	router.HandleFunc("/api/resources", h.List).Methods("GET")
	router.HandleFunc("/api/resources/stats", middleware.Admin(h.GetStats)).Methods("GET")
	router.HandleFunc("/api/resources/{id}", h.Get).Methods("GET")
	router.HandleFunc("/api/resources/{id}/download", h.Download).Methods("POST")
	router.HandleFunc("/api/resources/{id}", middleware.Admin(h.Delete)).Methods("DELETE")
}
