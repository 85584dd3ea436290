package command

import (
	"fmt"

	"github.com/stawicover/agency-api/internal/claim/domain"
)

// DeleteClaimHandler handles claim deletion.
type DeleteClaimHandler struct {
	repo domain.ClaimRepository
}

// NewDeleteClaimHandler creates a new claim deletion handler.
func NewDeleteClaimHandler(repo domain.ClaimRepository) *DeleteClaimHandler {
	return &DeleteClaimHandler{repo: repo}
}

// Handle deletes the claim with the given id.
func (h *DeleteClaimHandler) Handle(id uint) error {
	if _, err := h.repo.FindByID(id); err != nil {
		return fmt.Errorf("claim not found: %w", err)
	}
	if err := h.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	return nil
}
