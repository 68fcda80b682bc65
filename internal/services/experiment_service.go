package services

import (
	"errors"

	"github.com/researchlab/experiment-api/internal/models"
	"gorm.io/gorm"
)

// ExperimentUpdate carries the mutable fields of an experiment. Nil
// pointers mean "keep the current value", so partial updates are
// possible. Owner and ID are immutable and deliberately absent.
type ExperimentUpdate struct {
	Title       *string
	Description *string
	Category    *string
}

// ExperimentService provides owner-scoped access to experiment records.
// Every operation takes the authenticated caller's ID and never returns
// or touches rows owned by anyone else. An experiment that exists but
// belongs to another researcher is indistinguishable from one that does
// not exist.
type ExperimentService interface {
	// ListByAuthor returns the caller's experiments, newest first
	ListByAuthor(authorID uint) ([]models.Experiment, error)
	// GetByID returns a single experiment owned by the caller
	GetByID(id, authorID uint) (*models.Experiment, error)
	// Create stores a new experiment attributed to exp.AuthorID
	Create(exp *models.Experiment) error
	// Update applies a partial update to an experiment owned by the caller
	Update(id, authorID uint, update ExperimentUpdate) (*models.Experiment, error)
	// Delete removes an experiment owned by the caller
	Delete(id, authorID uint) error
}

type experimentService struct {
	db *gorm.DB
}

// NewExperimentService creates a new instance of ExperimentService
func NewExperimentService(db *gorm.DB) ExperimentService {
	return &experimentService{db: db}
}

func (s *experimentService) ListByAuthor(authorID uint) ([]models.Experiment, error) {
	experiments := make([]models.Experiment, 0)
	if err := s.db.Where("author_id = ?", authorID).Order("created_at DESC").Find(&experiments).Error; err != nil {
		return nil, err
	}
	return experiments, nil
}

func (s *experimentService) GetByID(id, authorID uint) (*models.Experiment, error) {
	var exp models.Experiment
	if err := s.db.Where("id = ? AND author_id = ?", id, authorID).First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperimentNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (s *experimentService) Create(exp *models.Experiment) error {
	if !models.ValidCategory(exp.Category) {
		return ErrInvalidCategory
	}
	return s.db.Create(exp).Error
}

func (s *experimentService) Update(id, authorID uint, update ExperimentUpdate) (*models.Experiment, error) {
	values := map[string]interface{}{}
	if update.Title != nil {
		values["title"] = *update.Title
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Category != nil {
		if !models.ValidCategory(*update.Category) {
			return nil, ErrInvalidCategory
		}
		values["category"] = *update.Category
	}

	if len(values) > 0 {
		// Single conditional statement: the ownership check and the write
		// happen atomically, so there is no window between them.
		result := s.db.Model(&models.Experiment{}).
			Where("id = ? AND author_id = ?", id, authorID).
			Updates(values)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrExperimentNotFound
		}
	}

	return s.GetByID(id, authorID)
}

func (s *experimentService) Delete(id, authorID uint) error {
	result := s.db.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Experiment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExperimentNotFound
	}
	return nil
}
