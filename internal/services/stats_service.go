package services

import (
	"github.com/researchlab/experiment-api/internal/models"
	"gorm.io/gorm"
)

// StatsService exposes aggregate numbers for the admin dashboard
type StatsService interface {
	// TotalExperiments counts all experiment rows across every owner
	TotalExperiments() (int64, error)
}

type statsService struct {
	db *gorm.DB
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(db *gorm.DB) StatsService {
	return &statsService{db: db}
}

func (s *statsService) TotalExperiments() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Experiment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
