package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

func (h *handlers) generateReport(c *gin.Context) {
	var req services.ReportRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	userID, err := ownUserID(c, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	req.UserID = userID

	report, err := h.svc.Reports.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *handlers) listReports(c *gin.Context) {
	reports, err := h.svc.Reports.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *handlers) listUserReports(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	reports, err := h.svc.Reports.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
