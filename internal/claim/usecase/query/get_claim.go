package query

import (
	"github.com/stawicover/agency-api/internal/claim/domain"
)

// GetClaimHandler retrieves a single claim.
type GetClaimHandler struct {
	repo domain.ClaimRepository
}

// NewGetClaimHandler creates a new claim retrieval handler.
func NewGetClaimHandler(repo domain.ClaimRepository) *GetClaimHandler {
	return &GetClaimHandler{repo: repo}
}

func (h *GetClaimHandler) Handle(id uint) (*domain.Claim, error) {
	return h.repo.FindByID(id)
}
