package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/services"
	"github.com/casefetch/court-api/internal/utils"
)

// CacheHandler handles cache management requests
type CacheHandler struct {
	cacheService services.CacheServiceInterface
	logger       *logrus.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService services.CacheServiceInterface, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
		logger:       logger,
	}
}

// GetStats handles cache statistics request
// @Summary Get cache statistics
// @Description Get detailed cache statistics and metrics
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	requestID := c.GetString("request_id")

	stats, err := h.cacheService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get cache statistics")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to retrieve cache statistics",
			Code:      "CACHE_STATS_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"stats":     stats,
		"timestamp": time.Now(),
		"health":    h.cacheService.Health(),
	})
}

// Clear handles cache clear request
// @Summary Clear all cache
// @Description Clear all cached case search results
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /cache/clear [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	requestID := c.GetString("request_id")

	h.logger.WithField("request_id", requestID).Info("Clearing all cache")

	if err := h.cacheService.Clear(c.Request.Context()); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to clear cache")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to clear cache",
			Code:      "CACHE_CLEAR_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Cache cleared successfully",
		"timestamp": time.Now(),
		"success":   true,
	})
}

// Delete evicts one cached search
// @Summary Delete a cached search
// @Description Remove the cached result for one case so the next search hits the court site
// @Tags Cache
// @Produce json
// @Param case_type query string true "Case type"
// @Param case_number query string true "Case number"
// @Param filing_year query int true "Filing year"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cache/case [delete]
func (h *CacheHandler) Delete(c *gin.Context) {
	requestID := c.GetString("request_id")

	caseType := c.Query("case_type")
	caseNumber := c.Query("case_number")
	year, yearOK := utils.ParseFilingYear(c.Query("filing_year"))

	if caseType == "" || !utils.ValidateCaseNumber(caseNumber) || !yearOK {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Invalid cache key",
			Message:   "case_type, case_number and filing_year query parameters are required",
			Code:      "INVALID_CACHE_KEY",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	key := services.CacheKey(models.SearchQuery{
		CaseType:   caseType,
		CaseNumber: caseNumber,
		FilingYear: year,
	})

	exists, err := h.cacheService.Exists(c.Request.Context(), key)
	if err == nil && !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "Not found",
			Message:   "No cached result for this case",
			Code:      "CASE_NOT_IN_CACHE",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	if err := h.cacheService.Delete(c.Request.Context(), key); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"key":        key,
			"error":      err.Error(),
		}).Error("Failed to delete cached search")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to delete from cache",
			Code:      "CACHE_DELETE_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"key":        key,
	}).Info("Cached search evicted")

	c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Cached search evicted",
		"timestamp": time.Now(),
		"success":   true,
	})
}
