package quote

import (
	"time"

	"gorm.io/gorm"
)

// Quote request statuses.
const (
	StatusPending  = "pending"
	StatusQuoted   = "quoted"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// ValidStatus reports whether s is a known quote status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusQuoted, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Quote represents a quote request from a prospective customer.
type Quote struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"not null;index" json:"email"`
	Phone          string    `json:"phone"`
	InsuranceType  string    `gorm:"not null" json:"insuranceType"`
	CoverageAmount float64   `json:"coverageAmount"`
	Status         string    `gorm:"default:pending;index" json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Repository defines persistence for quote requests.
type Repository interface {
	Create(q *Quote) error
	FindByID(id uint) (*Quote, error)
	FindAll(status string, limit, offset int) ([]Quote, error)
	Update(q *Quote) error
	Delete(id uint) error
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new quote repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(q *Quote) error {
	return r.db.Create(q).Error
}

func (r *GormRepository) FindByID(id uint) (*Quote, error) {
	var q Quote
	if err := r.db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *GormRepository) FindAll(status string, limit, offset int) ([]Quote, error) {
	var quotes []Quote
	tx := r.db.Limit(limit).Offset(offset).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err := tx.Find(&quotes).Error
	return quotes, err
}

func (r *GormRepository) Update(q *Quote) error {
	return r.db.Save(q).Error
}

func (r *GormRepository) Delete(id uint) error {
	return r.db.Delete(&Quote{}, id).Error
}
