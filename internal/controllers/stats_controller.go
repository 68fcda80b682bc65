package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/researchlab/experiment-api/internal/services"
)

// StatsController serves aggregate numbers to admins
type StatsController struct {
	service services.StatsService
}

// NewStatsController creates a new instance of StatsController
func NewStatsController(service services.StatsService) *StatsController {
	return &StatsController{service: service}
}

// GetStats godoc
// @Summary Get aggregate statistics
// @Description Get the total number of experiments across all researchers
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]int64
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/stats [get]
func (sc *StatsController) GetStats(c *gin.Context) {
	count, err := sc.service.TotalExperiments()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalExperiments": count})
}
