package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Claim statuses.
const (
	StatusPending     = "pending"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusSettled     = "settled"
)

// ValidStatus reports whether s is a known claim status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusSettled:
		return true
	}
	return false
}

// Document describes one uploaded supporting file.
type Document struct {
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Path         string    `json:"path"`
	MimeType     string    `json:"mimeType"`
	PublicID     string    `json:"publicId"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Documents is stored as a JSON array column.
type Documents []Document

func (d Documents) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Documents) Scan(value interface{}) error {
	if value == nil {
		*d = Documents{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type for documents: %T", value)
	}
	return json.Unmarshal(b, d)
}

// Claim represents an insurance claim submission.
type Claim struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	PolicyNumber        string    `gorm:"not null;index" json:"policyNumber"`
	ClaimType           string    `gorm:"not null" json:"claimType"`
	IncidentDate        time.Time `json:"incidentDate"`
	EstimatedLoss       float64   `json:"estimatedLoss"`
	Description         string    `gorm:"type:text" json:"description"`
	ContactName         string    `json:"contactName"`
	ContactEmail        string    `json:"contactEmail"`
	ContactPhone        string    `json:"contactPhone"`
	SupportingDocuments Documents `gorm:"type:jsonb" json:"supportingDocuments"`
	Status              string    `gorm:"default:pending;index" json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ClaimRepository defines persistence for claims.
type ClaimRepository interface {
	Create(claim *Claim) error
	FindByID(id uint) (*Claim, error)
	FindAll(limit, offset int) ([]Claim, error)
	FindByStatus(status string, limit, offset int) ([]Claim, error)
	Update(claim *Claim) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
}
