package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/researchlab/experiment-api/internal/models"
	"github.com/researchlab/experiment-api/internal/services"
	log "github.com/sirupsen/logrus"
)

// UserController handles admin-only account management requests
type UserController interface {
	// ListUsers returns every account
	ListUsers(c *gin.Context)
	// CreateUser registers a new account
	CreateUser(c *gin.Context)
	// DeleteUser removes an account by ID
	DeleteUser(c *gin.Context)
}

type userController struct {
	service services.UserService
}

// NewUserController creates a new instance of UserController
func NewUserController(service services.UserService) UserController {
	return &userController{service: service}
}

// userResponse is the public view of an account. Password hashes never
// appear here.
type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// ListUsers godoc
// @Summary List all user accounts
// @Description Get every account without password hashes
// @Tags users
// @Produce json
// @Success 200 {array} userResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/users [get]
func (uc *userController) ListUsers(c *gin.Context) {
	users, err := uc.service.ListUsers()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := make([]userResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}
	c.JSON(http.StatusOK, response)
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser godoc
// @Summary Create a user account
// @Description Register a new account with a role fixed at creation time
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "New account"
// @Success 201 {object} userResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/users [post]
func (uc *userController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be ADMIN or RESEARCHER"})
		return
	}

	user := &models.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}

	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password_hashing_failed"})
		return
	}

	if err := uc.service.CreateUser(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User account created")

	c.JSON(http.StatusCreated, toUserResponse(*user))
}

// DeleteUser godoc
// @Summary Delete a user account
// @Description Remove an account. Admin accounts are protected; the configured policy decides what happens to the user's experiments.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/users/{id} [delete]
func (uc *userController) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := uc.service.DeleteUser(uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrUserProtected):
			c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
		default:
			// Not-found and policy violations surface as plain bad requests
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	log.WithField("user_id", id).Info("User account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
