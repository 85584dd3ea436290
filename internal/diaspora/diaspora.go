package diaspora

import (
	"time"

	"gorm.io/gorm"
)

// Diaspora request statuses.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

// ValidStatus reports whether s is a known diaspora request status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusContacted, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// Request represents a cover enquiry from a customer living abroad.
type Request struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null;index" json:"email"`
	Phone       string    `json:"phone"`
	Country     string    `gorm:"not null" json:"country"`
	Details     string    `gorm:"type:text" json:"details"`
	ConsultTime string    `json:"consultTime"`
	Amount      float64   `json:"amount"`
	Status      string    `gorm:"default:pending;index" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Repository defines persistence for diaspora requests.
type Repository interface {
	Create(req *Request) error
	FindByID(id uint) (*Request, error)
	FindAll(status string, limit, offset int) ([]Request, error)
	Update(req *Request) error
	Delete(id uint) error
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new diaspora repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(req *Request) error {
	return r.db.Create(req).Error
}

func (r *GormRepository) FindByID(id uint) (*Request, error) {
	var req Request
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *GormRepository) FindAll(status string, limit, offset int) ([]Request, error) {
	var requests []Request
	tx := r.db.Limit(limit).Offset(offset).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err := tx.Find(&requests).Error
	return requests, err
}

func (r *GormRepository) Update(req *Request) error {
	return r.db.Save(req).Error
}

func (r *GormRepository) Delete(id uint) error {
	return r.db.Delete(&Request{}, id).Error
}
