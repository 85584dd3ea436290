package query

import (
	"github.com/stawicover/agency-api/internal/claim/domain"
)

// ListClaimsQuery filters the claim listing.
type ListClaimsQuery struct {
	Status string
	Limit  int
	Offset int
}

// ListClaimsHandler lists claims with optional status filtering.
type ListClaimsHandler struct {
	repo domain.ClaimRepository
}

// NewListClaimsHandler creates a new claim listing handler.
func NewListClaimsHandler(repo domain.ClaimRepository) *ListClaimsHandler {
	return &ListClaimsHandler{repo: repo}
}

func (h *ListClaimsHandler) Handle(q ListClaimsQuery) ([]domain.Claim, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Status != "" {
		return h.repo.FindByStatus(q.Status, q.Limit, q.Offset)
	}
	return h.repo.FindAll(q.Limit, q.Offset)
}
