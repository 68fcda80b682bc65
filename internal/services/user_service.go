package services

import (
	"errors"

	"github.com/researchlab/experiment-api/internal/config"
	"github.com/researchlab/experiment-api/internal/models"
	"gorm.io/gorm"
)

// UserService manages user accounts. All operations here are reachable
// only through admin-gated routes, except the lookups used during login.
type UserService interface {
	// ListUsers returns all user accounts (password hashes never leave the model's json:"-" field)
	ListUsers() ([]models.User, error)
	// CreateUser stores a new account, rejecting duplicate emails
	CreateUser(user *models.User) error
	// GetUserByEmail looks up an account for credential verification
	GetUserByEmail(email string) (*models.User, error)
	// GetUserByID looks up an account by primary key
	GetUserByID(id uint) (*models.User, error)
	// DeleteUser removes an account, applying the configured policy to its experiments
	DeleteUser(id uint) error
}

type userService struct {
	db           *gorm.DB
	deletePolicy string
}

// NewUserService creates a UserService over db. deletePolicy is one of
// the config.DeletePolicy values and decides the fate of a deleted
// user's experiments.
func NewUserService(db *gorm.DB, deletePolicy string) UserService {
	return &userService{db: db, deletePolicy: deletePolicy}
}

func (s *userService) ListUsers() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) CreateUser(user *models.User) error {
	var existing models.User
	if err := s.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrDuplicateEmail
	}

	return s.db.Create(user).Error
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) DeleteUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	// Admin accounts cannot be deleted through the API, which also rules
	// out an admin deleting their own account.
	if user.Role == models.RoleAdmin {
		return ErrUserProtected
	}

	switch s.deletePolicy {
	case config.DeletePolicyBlock:
		var count int64
		if err := s.db.Model(&models.Experiment{}).Where("author_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserHasExperiments
		}
		return s.db.Delete(&models.User{}, id).Error

	case config.DeletePolicyCascade:
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("author_id = ?", id).Delete(&models.Experiment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.User{}, id).Error
		})

	default:
		// retain: experiments keep their dangling author reference
		return s.db.Delete(&models.User{}, id).Error
	}
}
