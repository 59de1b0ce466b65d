package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/services"
	"github.com/casefetch/court-api/internal/store"
	"github.com/casefetch/court-api/internal/utils"
)

// CaseHandler handles case search requests
type CaseHandler struct {
	caseService services.CaseServiceInterface
	logger      *logrus.Logger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService services.CaseServiceInterface, logger *logrus.Logger) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
		logger:      logger,
	}
}

// failureStatus maps a pipeline failure kind to an HTTP status.
func failureStatus(kind models.ErrorKind) int {
	switch kind {
	case models.ErrNoRecordFound:
		return http.StatusNotFound
	case models.ErrNavigationTimeout:
		return http.StatusGatewayTimeout
	case models.ErrDriverUnavailable:
		return http.StatusServiceUnavailable
	default:
		// Form drift, CAPTCHA and parse failures are upstream problems
		// from the client's point of view.
		return http.StatusBadGateway
	}
}

// Search handles a case-status search
// @Summary Search case status
// @Description Search the Delhi High Court case-status portal for a case and return its parsed details
// @Tags Cases
// @Accept json
// @Produce json
// @Param request body models.SearchRequest true "Case search request"
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.SearchResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.SearchResponse
// @Failure 503 {object} models.SearchResponse
// @Router /cases/search [post]
func (h *CaseHandler) Search(c *gin.Context) {
	h.runSearch(c, h.caseService.Search)
}

// Retry handles a forced fresh search
// @Summary Retry case search
// @Description Run a fresh search for a case, bypassing cached and stored results
// @Tags Cases
// @Accept json
// @Produce json
// @Param request body models.SearchRequest true "Case search request"
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.SearchResponse
// @Failure 502 {object} models.SearchResponse
// @Router /cases/retry [post]
func (h *CaseHandler) Retry(c *gin.Context) {
	h.runSearch(c, h.caseService.Retry)
}

func (h *CaseHandler) runSearch(c *gin.Context, run func(context.Context, models.SearchQuery) (*models.SearchResponse, error)) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid search request format")

		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Invalid request format",
			Message:   err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	query, errResp := h.validateRequest(c, request)
	if errResp != nil {
		c.JSON(http.StatusBadRequest, *errResp)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"case_type":   query.CaseType,
		"case_number": query.CaseNumber,
		"filing_year": query.FilingYear,
	}).Info("Processing case search")

	result, err := run(c.Request.Context(), query)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"duration":   time.Since(start),
		}).Error("Case search failed")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "An unexpected error occurred while processing your request",
			Code:      "INTERNAL_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	if result.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	if !result.Success {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"case_id":    result.CaseID,
			"kind":       result.Failure.Kind,
			"duration":   time.Since(start),
		}).Warn("Case search returned a failure")
		c.JSON(failureStatus(result.Failure.Kind), result)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"case_id":    result.CaseID,
		"cached":     result.Cached,
		"duration":   time.Since(start),
	}).Info("Case search completed")
	c.JSON(http.StatusOK, result)
}

// validateRequest normalizes a search request into a query, or reports the
// first validation problem.
func (h *CaseHandler) validateRequest(c *gin.Context, request models.SearchRequest) (models.SearchQuery, *models.ErrorResponse) {
	fail := func(message, code string) (models.SearchQuery, *models.ErrorResponse) {
		return models.SearchQuery{}, &models.ErrorResponse{
			Error:     "Validation failed",
			Message:   message,
			Code:      code,
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		}
	}

	if !utils.ValidateCaseNumber(request.CaseNumber) {
		return fail("Case number must be digits with an optional / or - separator, at most 50 characters", "INVALID_CASE_NUMBER")
	}
	year, ok := utils.ParseFilingYear(request.FilingYear)
	if !ok {
		return fail("Filing year must be between 1950 and the current year", "INVALID_FILING_YEAR")
	}
	if request.CaseType == "" {
		return fail("Case type is required", "INVALID_CASE_TYPE")
	}

	return models.SearchQuery{
		CaseType:   request.CaseType,
		CaseNumber: request.CaseNumber,
		FilingYear: year,
	}, nil
}

// GetCase returns one stored search
// @Summary Get stored case
// @Description Return a previously recorded search with its parsed details and order links
// @Tags Cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} models.CaseSummary
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	requestID := c.GetString("request_id")
	id := c.Param("id")

	summary, err := h.caseService.GetCase(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "Not found",
			Message:   "No search recorded under this ID",
			Code:      "CASE_NOT_FOUND",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"case_id":    id,
			"error":      err.Error(),
		}).Error("Failed to load case")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to load the case",
			Code:      "INTERNAL_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Lookup returns the latest search recorded for a case identity
// @Summary Look up a case by number
// @Description Return the most recent recorded search for a case number, whatever its outcome
// @Tags Cases
// @Produce json
// @Param number path string true "Case number"
// @Param case_type query string true "Case type"
// @Param filing_year query int true "Filing year"
// @Param successful_only query bool false "Skip failed and pending attempts"
// @Success 200 {object} models.CaseSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /cases/lookup/{number} [get]
func (h *CaseHandler) Lookup(c *gin.Context) {
	requestID := c.GetString("request_id")

	caseNumber := c.Param("number")
	caseType := c.Query("case_type")
	year, yearOK := utils.ParseFilingYear(c.Query("filing_year"))

	if caseType == "" || !utils.ValidateCaseNumber(caseNumber) || !yearOK {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Validation failed",
			Message:   "A valid case number plus case_type and filing_year query parameters are required",
			Code:      "INVALID_LOOKUP",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	query := models.SearchQuery{
		CaseType:   caseType,
		CaseNumber: caseNumber,
		FilingYear: year,
	}

	successfulOnly := c.Query("successful_only") == "true"

	summary, err := h.caseService.Lookup(c.Request.Context(), query, successfulOnly)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "Not found",
			Message:   "No search recorded for this case",
			Code:      "CASE_NOT_FOUND",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"case_number": caseNumber,
			"error":       err.Error(),
		}).Error("Failed to look up case")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to look up the case",
			Code:      "INTERNAL_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// History lists past searches
// @Summary List search history
// @Description Return a page of past searches, newest first
// @Tags Cases
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Results per page" default(20)
// @Success 200 {object} models.HistoryResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /cases [get]
func (h *CaseHandler) History(c *gin.Context) {
	requestID := c.GetString("request_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	history, err := h.caseService.History(c.Request.Context(), page, perPage)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load search history")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to load search history",
			Code:      "INTERNAL_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusOK, history)
}

// Stats summarises the search history
// @Summary Search statistics
// @Description Return per-status counts of recorded searches
// @Tags Cases
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /cases/stats [get]
func (h *CaseHandler) Stats(c *gin.Context) {
	stats, err := h.caseService.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to compute stats")

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Internal server error",
			Message:   "Failed to compute statistics",
			Code:      "INTERNAL_ERROR",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CaseTypes lists accepted case-type codes
// @Summary List case types
// @Description Return the case-type codes accepted by the court search form
// @Tags Cases
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /cases/types [get]
func (h *CaseHandler) CaseTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"case_types": utils.CaseTypes,
		"total":      len(utils.CaseTypes),
	})
}
