package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collegekit/feedback-api/internal/controller"
	"github.com/collegekit/feedback-api/internal/service"
)

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// FormResponses godoc
// @Summary List raw responses of a form
// @Description Returns the live response rows with respondent references. Use the snapshots endpoint for the denormalized reporting view.
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/responses [get]
func (c *ReportController) FormResponses(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.reportService.FormResponses(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// FormSnapshots godoc
// @Summary List feedback snapshots of a form
// @Description Snapshots carry the academic context frozen at submission time, so they stay stable when students move divisions later.
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/snapshots [get]
func (c *ReportController) FormSnapshots(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.reportService.FormSnapshots(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// FormSummary godoc
// @Summary Aggregate report for a form
// @Description Per-question response counts and averages for numeric question types, plus the distinct respondent count.
// @Tags Admin - Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/summary [get]
func (c *ReportController) FormSummary(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.reportService.FormSummary(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}
