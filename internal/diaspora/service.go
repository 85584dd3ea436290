package diaspora

import (
	"fmt"
)

// Service coordinates diaspora request operations.
type Service struct {
	repo Repository
}

// NewService creates a new diaspora service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a new diaspora enquiry.
type CreateInput struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Country     string  `json:"country"`
	Details     string  `json:"details"`
	ConsultTime string  `json:"consultTime"`
	Amount      float64 `json:"amount"`
}

func (s *Service) Create(in CreateInput) (*Request, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.Country == "" {
		return nil, fmt.Errorf("country is required")
	}

	req := &Request{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Country:     in.Country,
		Details:     in.Details,
		ConsultTime: in.ConsultTime,
		Amount:      in.Amount,
		Status:      StatusPending,
	}
	if err := s.repo.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create diaspora request: %w", err)
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
		return nil, fmt.Errorf("invalid diaspora status: %s", status)
	}
	req, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("diaspora request not found: %w", err)
	}
	req.Status = status
	if err := s.repo.Update(req); err != nil {
		return nil, fmt.Errorf("failed to update diaspora status: %w", err)
	}
	return req, nil
}

func (s *Service) Delete(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return fmt.Errorf("diaspora request not found: %w", err)
	}
	return s.repo.Delete(id)
}
