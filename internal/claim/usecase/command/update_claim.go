package command

import (
	"fmt"
	"time"

	"github.com/stawicover/agency-api/internal/claim/domain"
)

// UpdateClaimCommand carries a partial claim update.
type UpdateClaimCommand struct {
	ID                  uint
	ClaimType           *string          `json:"claimType"`
	IncidentDate        *time.Time       `json:"incidentDate"`
	EstimatedLoss       *float64         `json:"estimatedLoss"`
	Description         *string          `json:"description"`
	ContactName         *string          `json:"contactName"`
	ContactEmail        *string          `json:"contactEmail"`
	ContactPhone        *string          `json:"contactPhone"`
	SupportingDocuments domain.Documents `json:"supportingDocuments"`
}

// UpdateClaimHandler handles claim updates.
type UpdateClaimHandler struct {
	repo domain.ClaimRepository
}

// NewUpdateClaimHandler creates a new claim update handler.
func NewUpdateClaimHandler(repo domain.ClaimRepository) *UpdateClaimHandler {
	return &UpdateClaimHandler{repo: repo}
}

// Handle applies the non-nil fields of the command to an existing claim.
// Supplied documents are appended, never replaced.
func (h *UpdateClaimHandler) Handle(cmd UpdateClaimCommand) (*domain.Claim, error) {
	claim, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if cmd.ClaimType != nil {
		claim.ClaimType = *cmd.ClaimType
	}
	if cmd.IncidentDate != nil {
		claim.IncidentDate = *cmd.IncidentDate
	}
	if cmd.EstimatedLoss != nil {
		claim.EstimatedLoss = *cmd.EstimatedLoss
	}
	if cmd.Description != nil {
		claim.Description = *cmd.Description
	}
	if cmd.ContactName != nil {
		claim.ContactName = *cmd.ContactName
	}
	if cmd.ContactEmail != nil {
		claim.ContactEmail = *cmd.ContactEmail
	}
	if cmd.ContactPhone != nil {
		claim.ContactPhone = *cmd.ContactPhone
	}
	if len(cmd.SupportingDocuments) > 0 {
		claim.SupportingDocuments = append(claim.SupportingDocuments, cmd.SupportingDocuments...)
	}

	if err := h.repo.Update(claim); err != nil {
		return nil, fmt.Errorf("failed to update claim: %w", err)
	}
	return claim, nil
}
