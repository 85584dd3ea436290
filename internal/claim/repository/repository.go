package repository

import (
	"gorm.io/gorm"

	"github.com/stawicover/agency-api/internal/claim/domain"
)

// GormClaimRepository implements domain.ClaimRepository using GORM.
type GormClaimRepository struct {
	db *gorm.DB
}

// NewGormClaimRepository creates a new claim repository.
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

func (r *GormClaimRepository) Create(claim *domain.Claim) error {
	return r.db.Create(claim).Error
}

func (r *GormClaimRepository) FindByID(id uint) (*domain.Claim, error) {
	var claim domain.Claim
	if err := r.db.First(&claim, id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *GormClaimRepository) FindAll(limit, offset int) ([]domain.Claim, error) {
	var claims []domain.Claim
	err := r.db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&claims).Error
	return claims, err
}

func (r *GormClaimRepository) FindByStatus(status string, limit, offset int) ([]domain.Claim, error) {
	var claims []domain.Claim
	err := r.db.Where("status = ?", status).Limit(limit).Offset(offset).Order("created_at DESC").Find(&claims).Error
	return claims, err
}

func (r *GormClaimRepository) Update(claim *domain.Claim) error {
	return r.db.Save(claim).Error
}

func (r *GormClaimRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&domain.Claim{}).Where("id = ?", id).Update("status", status).Error
}

func (r *GormClaimRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Claim{}, id).Error
}
