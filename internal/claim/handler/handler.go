package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/claim/domain"
	"github.com/stawicover/agency-api/internal/claim/usecase/command"
	"github.com/stawicover/agency-api/internal/claim/usecase/query"
	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// ClaimHandler handles HTTP requests for insurance claims.
type ClaimHandler struct {
	createHandler *command.CreateClaimHandler
	updateHandler *command.UpdateClaimHandler
	statusHandler *command.UpdateClaimStatusHandler
	deleteHandler *command.DeleteClaimHandler
	getHandler    *query.GetClaimHandler
	listHandler   *query.ListClaimsHandler
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(repo domain.ClaimRepository) *ClaimHandler {
	return &ClaimHandler{
		createHandler: command.NewCreateClaimHandler(repo),
		updateHandler: command.NewUpdateClaimHandler(repo),
		statusHandler: command.NewUpdateClaimStatusHandler(repo),
		deleteHandler: command.NewDeleteClaimHandler(repo),
		getHandler:    query.NewGetClaimHandler(repo),
		listHandler:   query.NewListClaimsHandler(repo),
	}
}

// CreateClaim handles POST /api/claims
func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateClaimCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	claim, err := h.createHandler.Handle(cmd)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to create claim", err.Error())
		return
	}

	logger.Info(r.Context()).Uint("claim_id", claim.ID).Str("policy", claim.PolicyNumber).Msg("Claim submitted")
	response.Created(w, "Claim submitted successfully", claim)
}

// GetClaim handles GET /api/claims/{id}
func (h *ClaimHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	claim, err := h.getHandler.Handle(id)
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Claim not found", "")
		return
	}
	response.OK(w, "", claim)
}

// ListClaims handles GET /api/claims
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	claims, err := h.listHandler.Handle(query.ListClaimsQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list claims")
		response.Fail(w, http.StatusInternalServerError, "Failed to list claims", "")
		return
	}

	response.OK(w, "", map[string]interface{}{
		"claims": claims,
		"total":  len(claims),
	})
}

// UpdateClaim handles PUT /api/claims/{id}
func (h *ClaimHandler) UpdateClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var cmd command.UpdateClaimCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	cmd.ID = id

	claim, err := h.updateHandler.Handle(cmd)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to update claim", err.Error())
		return
	}
	response.OK(w, "Claim updated successfully", claim)
}

// UpdateClaimStatus handles PUT /api/claims/{id}/status
func (h *ClaimHandler) UpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var cmd command.UpdateClaimStatusCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	cmd.ID = id

	claim, err := h.statusHandler.Handle(cmd)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Failed to update claim status", err.Error())
		return
	}

	logger.Info(r.Context()).Uint("claim_id", claim.ID).Str("status", claim.Status).Msg("Claim status updated")
	response.OK(w, "Claim status updated", claim)
}

// DeleteClaim handles DELETE /api/claims/{id}
func (h *ClaimHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(id); err != nil {
		response.Fail(w, http.StatusNotFound, "Claim not found", "")
		return
	}
	response.OK(w, "Claim deleted successfully", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid claim ID", "")
		return 0, false
	}
	return uint(id), true
}

// RegisterRoutes registers all claim routes.
func (h *ClaimHandler) RegisterRoutes(router *mux.Router) {
	// Public submission; management requires an admin token.
	router.HandleFunc("/api/claims", h.CreateClaim).Methods("POST")
	router.HandleFunc("/api/claims", middleware.Admin(h.ListClaims)).Methods("GET")
	router.HandleFunc("/api/claims/{id:[0-9]+}", middleware.Admin(h.GetClaim)).Methods("GET")
	router.HandleFunc("/api/claims/{id:[0-9]+}", middleware.Admin(h.UpdateClaim)).Methods("PUT")
	router.HandleFunc("/api/claims/{id:[0-9]+}/status", middleware.Admin(h.UpdateClaimStatus)).Methods("PUT")
	router.HandleFunc("/api/claims/{id:[0-9]+}", middleware.Admin(h.DeleteClaim)).Methods("DELETE")
}
