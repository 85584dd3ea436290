package quote

import (
	"fmt"
)

// Service coordinates quote request operations.
type Service struct {
	repo Repository
}

// NewService creates a new quote service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a new quote request.
type CreateInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	InsuranceType  string  `json:"insuranceType"`
	CoverageAmount float64 `json:"coverageAmount"`
}

func (s *Service) Create(in CreateInput) (*Quote, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.InsuranceType == "" {
		return nil, fmt.Errorf("insurance type is required")
	}

	q := &Quote{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		InsuranceType:  in.InsuranceType,
		CoverageAmount: in.CoverageAmount,
		Status:         StatusPending,
	}
	if err := s.repo.Create(q); err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}
	return q, nil
}

func (s *Service) Get(id uint) (*Quote, error) {
	return s.repo.FindByID(id)
}

func (s *Service) List(status string, limit, offset int) ([]Quote, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.FindAll(status, limit, offset)
}

func (s *Service) UpdateStatus(id uint, status string) (*Quote, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid quote status: %s", status)
	}
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("quote request not found: %w", err)
	}
	q.Status = status
	if err := s.repo.Update(q); err != nil {
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}
	return q, nil
}

func (s *Service) Delete(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return fmt.Errorf("quote request not found: %w", err)
	}
	return s.repo.Delete(id)
}
