package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
	"github.com/casefetch/court-api/internal/services"
	"github.com/casefetch/court-api/internal/store"
)

// OrderHandler serves stored order PDFs
type OrderHandler struct {
	caseService services.CaseServiceInterface
	logger      *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(caseService services.CaseServiceInterface, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		caseService: caseService,
		logger:      logger,
	}
}

// Download streams an order PDF
// @Summary Download order PDF
// @Description Download the PDF behind a stored order link, fetching it from the court site on first access
// @Tags Orders
// @Produce application/pdf
// @Param id path int true "Order ID"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /orders/{id}/download [get]
func (h *OrderHandler) Download(c *gin.Context) {
	requestID := c.GetString("request_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "Invalid order ID",
			Message:   "Order ID must be a number",
			Code:      "INVALID_ORDER_ID",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	data, filename, err := h.caseService.DownloadOrder(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "Not found",
			Message:   "No order recorded under this ID",
			Code:      "ORDER_NOT_FOUND",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}
	if err != nil {
		failure := models.AsFailure(err, models.ErrDownloadFailed)
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   id,
			"kind":       failure.Kind,
			"error":      failure.Message,
		}).Error("Order download failed")

		status := http.StatusBadGateway
		if failure.Kind == models.ErrNotAPdf {
			// The court served something other than the document.
			status = http.StatusConflict
		}
		c.JSON(status, models.ErrorResponse{
			Error:     "Download failed",
			Message:   failure.Message,
			Code:      string(failure.Kind),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"order_id":   id,
		"bytes":      len(data),
	}).Info("Order PDF served")

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
