package resource

import (
	"fmt"

	"github.com/google/uuid"
)

// Service coordinates resource library operations.
type Service struct {
	repo Repository
}

// NewService creates a new resource service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput describes an uploaded resource.
type CreateInput struct {
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	FileType     string `json:"fileType"`
	Size         int64  `json:"size"`
}

func (s *Service) Create(in CreateInput) (*Resource, error) {
	if in.OriginalName == "" {
		return nil, fmt.Errorf("original name is required")
	}
	if in.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	res := &Resource{
		ID:           uuid.New().String(),
		OriginalName: in.OriginalName,
		Filename:     in.Filename,
		URL:          in.URL,
		PublicID:     in.PublicID,
		Category:     in.Category,
		Description:  in.Description,
		FileType:     in.FileType,
		Size:         in.Size,
	}
	if err := s.repo.Create(res); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func (s *Service) Get(id string) (*Resource, error) {
	return s.repo.FindByID(id)
}

func (s *Service) List(category string, limit, offset int) ([]Resource, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.FindAll(category, limit, offset)
}

// RecordDownload bumps the download counter and returns the resource so the
// caller can redirect to its URL.
func (s *Service) RecordDownload(id string) (*Resource, error) {
	res, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("resource not found: %w", err)
	}
	if err := s.repo.IncrementDownloads(id); err != nil {
		return nil, fmt.Errorf("failed to record download: %w", err)
	}
	res.Downloads++
	return res, nil
}

func (s *Service) Delete(id string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return fmt.Errorf("resource not found: %w", err)
	}
	return s.repo.Delete(id)
}

func (s *Service) Stats() (*Stats, error) {
	return s.repo.Stats()
}
