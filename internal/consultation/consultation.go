package consultation

import (
	"time"

	"gorm.io/gorm"
)

// Consultation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known consultation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Consultation represents a booked advisory session.
type Consultation struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"not null;index" json:"email"`
	Phone         string    `json:"phone"`
	Service       string    `gorm:"not null" json:"service"`
	PreferredDate string    `json:"preferredDate"`
	PreferredTime string    `json:"preferredTime"`
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"default:pending;index" json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Repository defines persistence for consultations.
type Repository interface {
	Create(c *Consultation) error
	FindByID(id uint) (*Consultation, error)
	FindAll(status string, limit, offset int) ([]Consultation, error)
	Update(c *Consultation) error
	Delete(id uint) error
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new consultation repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(c *Consultation) error {
	return r.db.Create(c).Error
}

func (r *GormRepository) FindByID(id uint) (*Consultation, error) {
	var c Consultation
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) FindAll(status string, limit, offset int) ([]Consultation, error) {
	var consultations []Consultation
	tx := r.db.Limit(limit).Offset(offset).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err := tx.Find(&consultations).Error
	return consultations, err
}

func (r *GormRepository) Update(c *Consultation) error {
	return r.db.Save(c).Error
}

func (r *GormRepository) Delete(id uint) error {
	return r.db.Delete(&Consultation{}, id).Error
}
