package dashboard

import (
	"time"

	"gorm.io/gorm"

	"github.com/stawicover/agency-api/internal/claim/domain"
	"github.com/stawicover/agency-api/internal/consultation"
	"github.com/stawicover/agency-api/internal/diaspora"
	"github.com/stawicover/agency-api/internal/outsourcing"
	paymentdomain "github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/internal/quote"
	"github.com/stawicover/agency-api/internal/resource"
)

// Stats is the aggregated admin dashboard snapshot.
type Stats struct {
	TotalClaims        int64   `json:"totalClaims"`
	TotalQuotes        int64   `json:"totalQuotes"`
	TotalConsultations int64   `json:"totalConsultations"`
	TotalOutsourcing   int64   `json:"totalOutsourcing"`
	TotalDiaspora      int64   `json:"totalDiaspora"`
	TotalResources     int64   `json:"totalResources"`
	TotalPayments      int64   `json:"totalPayments"`

	TotalRevenue   float64 `json:"totalRevenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	RevenueGrowth  float64 `json:"revenueGrowth"`

	PendingClaims        int64 `json:"pendingClaims"`
	PendingQuotes        int64 `json:"pendingQuotes"`
	PendingConsultations int64 `json:"pendingConsultations"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Repository computes dashboard aggregates.
type Repository interface {
	ComputeStats() (*Stats, error)
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new dashboard repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ComputeStats() (*Stats, error) {
	stats := &Stats{GeneratedAt: time.Now().UTC()}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&domain.Claim{}, &stats.TotalClaims},
		{&quote.Quote{}, &stats.TotalQuotes},
		{&consultation.Consultation{}, &stats.TotalConsultations},
		{&outsourcing.Request{}, &stats.TotalOutsourcing},
		{&diaspora.Request{}, &stats.TotalDiaspora},
		{&resource.Resource{}, &stats.TotalResources},
		{&paymentdomain.Payment{}, &stats.TotalPayments},
	}
	for _, c := range counts {
		if err := r.db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	pending := []struct {
		model interface{}
		dst   *int64
	}{
		{&domain.Claim{}, &stats.PendingClaims},
		{&quote.Quote{}, &stats.PendingQuotes},
		{&consultation.Consultation{}, &stats.PendingConsultations},
	}
	for _, c := range pending {
		if err := r.db.Model(c.model).Where("status = ?", "pending").Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := r.revenue(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *GormRepository) revenue(stats *Stats) error {
	completed := r.db.Model(&paymentdomain.Payment{}).
		Where("status = ?", paymentdomain.StatusCompleted)

	var total struct{ Amount float64 }
	if err := completed.Session(&gorm.Session{}).
		Select("COALESCE(SUM(amount),0) AS amount").
		Scan(&total).Error; err != nil {
		return err
	}
	stats.TotalRevenue = total.Amount

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)

	var month struct{ Amount float64 }
	if err := completed.Session(&gorm.Session{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(amount),0) AS amount").
		Scan(&month).Error; err != nil {
		return err
	}
	stats.MonthlyRevenue = month.Amount

	var prev struct{ Amount float64 }
	if err := completed.Session(&gorm.Session{}).
		Where("created_at >= ? AND created_at < ?", prevStart, monthStart).
		Select("COALESCE(SUM(amount),0) AS amount").
		Scan(&prev).Error; err != nil {
		return err
	}
	if prev.Amount > 0 {
		stats.RevenueGrowth = (month.Amount - prev.Amount) / prev.Amount * 100
	}
	return nil
}
