package command

import (
	"fmt"
	"time"

	"github.com/stawicover/agency-api/internal/claim/domain"
)

// CreateClaimCommand carries the data for a new claim submission.
type CreateClaimCommand struct {
	PolicyNumber        string           `json:"policyNumber"`
	ClaimType           string           `json:"claimType"`
	IncidentDate        time.Time        `json:"incidentDate"`
	EstimatedLoss       float64          `json:"estimatedLoss"`
	Description         string           `json:"description"`
	ContactName         string           `json:"contactName"`
	ContactEmail        string           `json:"contactEmail"`
	ContactPhone        string           `json:"contactPhone"`
	SupportingDocuments domain.Documents `json:"supportingDocuments"`
}

// CreateClaimHandler handles claim creation.
type CreateClaimHandler struct {
	repo domain.ClaimRepository
}

// NewCreateClaimHandler creates a new claim creation handler.
func NewCreateClaimHandler(repo domain.ClaimRepository) *CreateClaimHandler {
	return &CreateClaimHandler{repo: repo}
}

// Handle validates and persists a new claim.
func (h *CreateClaimHandler) Handle(cmd CreateClaimCommand) (*domain.Claim, error) {
	if cmd.PolicyNumber == "" {
		return nil, fmt.Errorf("policy number is required")
	}
	if cmd.ClaimType == "" {
		return nil, fmt.Errorf("claim type is required")
	}
	if cmd.ContactEmail == "" && cmd.ContactPhone == "" {
		return nil, fmt.Errorf("at least one contact method is required")
	}

	claim := &domain.Claim{
		PolicyNumber:        cmd.PolicyNumber,
		ClaimType:           cmd.ClaimType,
		IncidentDate:        cmd.IncidentDate,
		EstimatedLoss:       cmd.EstimatedLoss,
		Description:         cmd.Description,
		ContactName:         cmd.ContactName,
		ContactEmail:        cmd.ContactEmail,
		ContactPhone:        cmd.ContactPhone,
		SupportingDocuments: cmd.SupportingDocuments,
		Status:              domain.StatusPending,
	}

	if err := h.repo.Create(claim); err != nil {
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}
	return claim, nil
}
