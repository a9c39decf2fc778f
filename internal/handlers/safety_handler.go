package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
)

// reportReasons is the catalog the client renders in its report dialog.
var reportReasons = []map[string]string{
	{"code": "inappropriate_messages", "label": "Inappropriate messages"},
	{"code": "fake_profile", "label": "Fake profile"},
	{"code": "harassment", "label": "Harassment"},
	{"code": "spam", "label": "Spam or advertising"},
	{"code": "other", "label": "Other"},
}

type SafetyHandler struct {
	safety *services.SafetyService
}

func NewSafetyHandler(safety *services.SafetyService) *SafetyHandler {
	return &SafetyHandler{safety: safety}
}

func (h *SafetyHandler) BlockUser(c echo.Context) error {
	var req models.BlockRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	block, err := h.safety.BlockUser(currentUserID(c), req.BlockedID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, block)
}

func (h *SafetyHandler) UnblockUser(c echo.Context) error {
	if err := h.safety.UnblockUser(currentUserID(c), c.Param("userId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SafetyHandler) ListBlockedUsers(c echo.Context) error {
	blocks, err := h.safety.ListBlockedUsers(currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"blocks": blocks,
		"count":  len(blocks),
	})
}

func (h *SafetyHandler) ReportUser(c echo.Context) error {
	var req models.ReportRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.safety.ReportUser(currentUserID(c), req.ReportedID, req.Reason, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, report)
}

func (h *SafetyHandler) ListReportReasons(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"reasons": reportReasons})
}

// ListReports is the review queue, filterable by status.
func (h *SafetyHandler) ListReports(c echo.Context) error {
	page, limit := pageParams(c, 20, 100)
	reports, total, err := h.safety.ListReports(c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   total,
		"page":    page,
	})
}

func (h *SafetyHandler) UpdateReportStatus(c echo.Context) error {
	var req models.UpdateReportStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.safety.UpdateReportStatus(c.Param("reportId"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
