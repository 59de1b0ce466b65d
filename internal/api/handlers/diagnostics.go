package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/services"
)

// DiagnosticsHandler exposes operator endpoints for probing the court site
type DiagnosticsHandler struct {
	caseService services.CaseServiceInterface
	logger      *logrus.Logger
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(caseService services.CaseServiceInterface, logger *logrus.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		caseService: caseService,
		logger:      logger,
	}
}

// ProbeCaptcha inspects the live CAPTCHA widget
// @Summary Probe the CAPTCHA widget
// @Description Load the court search page and report what the challenge detector finds, without submitting anything
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} models.CaptchaProbe
// @Failure 502 {object} models.ErrorResponse
// @Router /diagnostics/captcha [get]
func (h *DiagnosticsHandler) ProbeCaptcha(c *gin.Context) {
	requestID := c.GetString("request_id")

	probe, err := h.caseService.ProbeCaptcha(c.Request.Context())
	if err != nil {
		failure := models.AsFailure(err, models.ErrDriverUnavailable)
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"kind":       failure.Kind,
			"error":      failure.Message,
		}).Error("CAPTCHA probe failed")

		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:     "Probe failed",
			Message:   failure.Message,
			Code:      string(failure.Kind),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":      requestID,
		"challenge_found": probe.ChallengeFound,
		"strategy":        probe.Strategy,
	}).Info("CAPTCHA probe completed")
	c.JSON(http.StatusOK, probe)
}
