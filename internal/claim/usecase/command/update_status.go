package command

import (
	"fmt"

	"github.com/stawicover/agency-api/internal/claim/domain"
)

// UpdateClaimStatusCommand moves a claim to a new status.
type UpdateClaimStatusCommand struct {
	ID     uint
	Status string `json:"status"`
}

// UpdateClaimStatusHandler handles claim status transitions.
type UpdateClaimStatusHandler struct {
	repo domain.ClaimRepository
}

// NewUpdateClaimStatusHandler creates a new status transition handler.
func NewUpdateClaimStatusHandler(repo domain.ClaimRepository) *UpdateClaimStatusHandler {
	return &UpdateClaimStatusHandler{repo: repo}
}

// Handle validates the requested status and persists the transition.
func (h *UpdateClaimStatusHandler) Handle(cmd UpdateClaimStatusCommand) (*domain.Claim, error) {
	if !domain.ValidStatus(cmd.Status) {
		return nil, fmt.Errorf("invalid claim status: %s", cmd.Status)
	}

	claim, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	// Settled is final.
	if claim.Status == domain.StatusSettled && cmd.Status != domain.StatusSettled {
		return nil, fmt.Errorf("settled claims cannot change status")
	}

	claim.Status = cmd.Status
	if err := h.repo.Update(claim); err != nil {
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}
	return claim, nil
}
