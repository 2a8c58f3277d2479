package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/collegekit/feedback-api/internal/controller"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/service"
)

type GrantController struct {
	grantService service.GrantService
}

func NewGrantController(grantService service.GrantService) *GrantController {
	return &GrantController{grantService: grantService}
}

// Distribute godoc
// @Summary Issue access grants to every enrolled student of the form's division
// @Description Skips students who already hold a grant for the form. Tokens are mailed out best-effort; mail failures are counted, not fatal.
// @Tags Admin - Grants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Form is not ACTIVE"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/distribute [post]
func (c *GrantController) Distribute(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.grantService.Distribute(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// ListGrants godoc
// @Summary List access grants of a form
// @Description Includes the submission flag per grant so admins can track completion.
// @Tags Admin - Grants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/grants [get]
func (c *GrantController) ListGrants(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.grantService.ListGrants(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// AddOverride godoc
// @Summary Grant access to a student outside the enrolled roster
// @Description Registers an override student (exchange or guest participants) and issues a grant for them in one call.
// @Tags Admin - Grants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param override body dto.OverrideGrantCreateDTO true "Override student and target form"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body or form not ACTIVE"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /access-grants/override [post]
func (c *GrantController) AddOverride(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	var req dto.OverrideGrantCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("AddOverride: failed to bind body")
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.grantService.AddOverride(ctx.Request.Context(), claims.CollegeID, req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusCreated, resp)
}
