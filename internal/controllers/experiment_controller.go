package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/researchlab/experiment-api/internal/middleware"
	"github.com/researchlab/experiment-api/internal/models"
	"github.com/researchlab/experiment-api/internal/services"
)

// ExperimentController handles researcher-scoped experiment requests.
// Every handler resolves the owner from the authenticated session, so a
// researcher can never reach another researcher's rows.
type ExperimentController interface {
	// ListExperiments returns the caller's experiments
	ListExperiments(c *gin.Context)
	// GetExperiment returns a single experiment owned by the caller
	GetExperiment(c *gin.Context)
	// CreateExperiment stores a new experiment owned by the caller
	CreateExperiment(c *gin.Context)
	// UpdateExperiment applies a partial update to the caller's experiment
	UpdateExperiment(c *gin.Context)
	// DeleteExperiment removes the caller's experiment
	DeleteExperiment(c *gin.Context)
}

type experimentController struct {
	service services.ExperimentService
}

// NewExperimentController creates a new instance of ExperimentController
func NewExperimentController(service services.ExperimentService) ExperimentController {
	return &experimentController{service: service}
}

// currentUserID reads the authenticated user's ID set by the JWTAuth middleware
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// experimentID parses the :id path parameter
func experimentID(c *gin.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid experiment ID format")
	}
	return uint(id), nil
}

// ListExperiments godoc
// @Summary List own experiments
// @Description Get the authenticated researcher's experiments, newest first
// @Tags experiments
// @Produce json
// @Success 200 {array} models.Experiment
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/experiments [get]
func (ec *experimentController) ListExperiments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	experiments, err := ec.service.ListByAuthor(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, experiments)
}

// GetExperiment godoc
// @Summary Get a single experiment
// @Description Get one of the authenticated researcher's experiments by ID. An experiment owned by someone else looks exactly like a missing one.
// @Tags experiments
// @Produce json
// @Param id path int true "Experiment ID"
// @Success 200 {object} models.Experiment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/experiments/{id} [get]
func (ec *experimentController) GetExperiment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := experimentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	experiment, err := ec.service.GetByID(id, userID)
	if err != nil {
		if errors.Is(err, services.ErrExperimentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Experiment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, experiment)
}

type createExperimentRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// CreateExperiment godoc
// @Summary Create an experiment
// @Description Store a new experiment owned by the authenticated researcher. Any owner field in the body is ignored.
// @Tags experiments
// @Accept json
// @Produce json
// @Param experiment body createExperimentRequest true "New experiment"
// @Success 201 {object} models.Experiment
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/experiments [post]
func (ec *experimentController) CreateExperiment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req createExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Owner always comes from the session, never from the request body
	experiment := &models.Experiment{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AuthorID:    userID,
	}

	if err := ec.service.Create(experiment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, experiment)
}

type updateExperimentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// UpdateExperiment godoc
// @Summary Update an experiment
// @Description Apply a partial update to one of the authenticated researcher's experiments; omitted fields keep their current value
// @Tags experiments
// @Accept json
// @Produce json
// @Param id path int true "Experiment ID"
// @Param experiment body updateExperimentRequest true "Fields to update"
// @Success 200 {object} models.Experiment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/experiments/{id} [put]
func (ec *experimentController) UpdateExperiment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := experimentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req updateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil && *req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
		return
	}
	if req.Description != nil && *req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description cannot be empty"})
		return
	}

	experiment, err := ec.service.Update(id, userID, services.ExperimentUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, services.ErrExperimentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Experiment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, experiment)
}

// DeleteExperiment godoc
// @Summary Delete an experiment
// @Description Remove one of the authenticated researcher's experiments
// @Tags experiments
// @Produce json
// @Param id path int true "Experiment ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/experiments/{id} [delete]
func (ec *experimentController) DeleteExperiment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := experimentID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ec.service.Delete(id, userID); err != nil {
		if errors.Is(err, services.ErrExperimentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Experiment not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Experiment deleted"})
}
