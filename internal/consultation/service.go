package consultation

import (
	"fmt"
)

// Service coordinates consultation bookings.
type Service struct {
	repo Repository
}

// NewService creates a new consultation service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries a new consultation booking.
type CreateInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Service       string `json:"service"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Message       string `json:"message"`
}

func (s *Service) Create(in CreateInput) (*Consultation, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Email == "" && in.Phone == "" {
		return nil, fmt.Errorf("at least one contact method is required")
	}
	if in.Service == "" {
		return nil, fmt.Errorf("service is required")
	}

	c := &Consultation{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Service:       in.Service,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Message:       in.Message,
		Status:        StatusPending,
	}
	if err := s.repo.Create(c); err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}
	return c, nil
}

func (s *Service) Get(id uint) (*Consultation, error) {
	return s.repo.FindByID(id)
}

func (s *Service) List(status string, limit, offset int) ([]Consultation, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.FindAll(status, limit, offset)
}

func (s *Service) UpdateStatus(id uint, status string) (*Consultation, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid consultation status: %s", status)
	}
	c, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("consultation not found: %w", err)
	}
	// Cancelled bookings stay cancelled; the customer books a new slot instead.
	if c.Status == StatusCancelled && status != StatusCancelled {
		return nil, fmt.Errorf("cancelled consultations cannot be reopened")
	}
	c.Status = status
	if err := s.repo.Update(c); err != nil {
		return nil, fmt.Errorf("failed to update consultation status: %w", err)
	}
	return c, nil
}

func (s *Service) Delete(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return fmt.Errorf("consultation not found: %w", err)
	}
	return s.repo.Delete(id)
}
