package outsourcing

import (
	"fmt"
)

// Service coordinates outsourcing request operations.
type Service struct {
	repo Repository
}

// NewService creates a new outsourcing service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a new outsourcing enquiry.
type CreateInput struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Details     string `json:"details"`
}

func (s *Service) Create(in CreateInput) (*Request, error) {
	if in.CompanyName == "" {
		return nil, fmt.Errorf("company name is required")
	}
	if in.ContactName == "" {
		return nil, fmt.Errorf("contact name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.Service == "" {
		return nil, fmt.Errorf("service is required")
	}

	req := &Request{
		CompanyName: in.CompanyName,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Service:     in.Service,
		Details:     in.Details,
		Status:      StatusPending,
	}
	if err := s.repo.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create outsourcing request: %w", err)
	}
	return req, nil
}

func (s *Service) Get(id uint) (*Request, error) {
	return s.repo.FindByID(id)
}

func (s *Service) List(status string, limit, offset int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.FindAll(status, limit, offset)
}

func (s *Service) UpdateStatus(id uint, status string) (*Request, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid outsourcing status: %s", status)
	}
	req, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("outsourcing request not found: %w", err)
	}
	req.Status = status
	if err := s.repo.Update(req); err != nil {
		return nil, fmt.Errorf("failed to update outsourcing status: %w", err)
	}
	return req, nil
}

func (s *Service) Delete(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return fmt.Errorf("outsourcing request not found: %w", err)
	}
	return s.repo.Delete(id)
}
