package dashboard

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// Handler serves the admin dashboard stats.
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats handles GET /api/dashboard/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to compute dashboard stats")
		response.Fail(w, http.StatusInternalServerError, "Failed to compute dashboard stats", "")
		return
	}
	response.OK(w, "", stats)
}

// RegisterRoutes registers dashboard routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/dashboard/stats", middleware.Admin(h.GetStats)).Methods("GET")
}
