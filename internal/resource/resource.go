package resource

import (
	"time"

	"gorm.io/gorm"
)

// Resource represents a downloadable document in the resource library.
type Resource struct {
	ID           string    `gorm:"primarykey;type:uuid" json:"id"`
	OriginalName string    `gorm:"not null" json:"originalName"`
	Filename     string    `gorm:"not null" json:"filename"`
	URL          string    `gorm:"not null" json:"url"`
	PublicID     string    `json:"publicId"`
	Category     string    `gorm:"index" json:"category"`
	Description  string    `gorm:"type:text" json:"description"`
	FileType     string    `json:"fileType"`
	Size         int64     `json:"size"`
	Downloads    int64     `gorm:"default:0" json:"downloads"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CategoryCount pairs a category with the number of resources in it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Stats summarizes the resource library.
type Stats struct {
	TotalResources int64           `json:"totalResources"`
	TotalDownloads int64           `json:"totalDownloads"`
	TotalSize      int64           `json:"totalSize"`
	ByCategory     []CategoryCount `json:"byCategory"`
}

// Repository defines persistence for resources.
type Repository interface {
	Create(res *Resource) error
	FindByID(id string) (*Resource, error)
	FindAll(category string, limit, offset int) ([]Resource, error)
	IncrementDownloads(id string) error
	Update(res *Resource) error
	Delete(id string) error
	Stats() (*Stats, error)
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new resource repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(res *Resource) error {
	return r.db.Create(res).Error
}

func (r *GormRepository) FindByID(id string) (*Resource, error) {
	var res Resource
	if err := r.db.First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormRepository) FindAll(category string, limit, offset int) ([]Resource, error) {
	var resources []Resource
	tx := r.db.Limit(limit).Offset(offset).Order("created_at DESC")
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	err := tx.Find(&resources).Error
	return resources, err
}

func (r *GormRepository) IncrementDownloads(id string) error {
	return r.db.Model(&Resource{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}

func (r *GormRepository) Update(res *Resource) error {
	return r.db.Save(res).Error
}

func (r *GormRepository) Delete(id string) error {
	return r.db.Delete(&Resource{}, "id = ?", id).Error
}

func (r *GormRepository) Stats() (*Stats, error) {
	var stats Stats
	if err := r.db.Model(&Resource{}).Count(&stats.TotalResources).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Downloads int64
		Size      int64
	}
	err := r.db.Model(&Resource{}).
		Select("COALESCE(SUM(downloads),0) AS downloads, COALESCE(SUM(size),0) AS size").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalDownloads = totals.Downloads
	stats.TotalSize = totals.Size

	err = r.db.Model(&Resource{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&stats.ByCategory).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
