package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/collegekit/feedback-api/internal/controller"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/service"
)

type FormController struct {
	formService service.FormService
}

func NewFormController(formService service.FormService) *FormController {
	return &FormController{formService: formService}
}

// CreateForm godoc
// @Summary Create a feedback form
// @Description Creates a DRAFT form for a subject allocation, optionally with its questions.
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form body dto.FormCreateDTO true "Form data including optional questions"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid body or allocation"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms [post]
func (c *FormController) CreateForm(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	var req dto.FormCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateForm: failed to bind body")
		controller.BindError(ctx, err)
		return
	}

	resp, err := c.formService.CreateForm(ctx.Request.Context(), claims.CollegeID, req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusCreated, resp)
}

// ListForms godoc
// @Summary List feedback forms of the caller's college
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms [get]
func (c *FormController) ListForms(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	resp, err := c.formService.ListForms(ctx.Request.Context(), claims.CollegeID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// GetForm godoc
// @Summary Get a feedback form with its questions
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id} [get]
func (c *FormController) GetForm(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.formService.GetForm(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// UpdateForm godoc
// @Summary Update form metadata
// @Description Updates title and end date. Questions are managed through the question endpoints.
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Param form body dto.FormUpdateDTO true "Fields to update"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id} [put]
func (c *FormController) UpdateForm(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.FormUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.formService.UpdateForm(ctx.Request.Context(), claims.CollegeID, formID, req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// ActivateForm godoc
// @Summary Open a DRAFT form for submissions
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Form is not in DRAFT"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/activate [post]
func (c *FormController) ActivateForm(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.formService.ActivateForm(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// CloseForm godoc
// @Summary Close an ACTIVE form
// @Description Closed forms reject every further submission regardless of end date.
// @Tags Admin - Forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Form is not ACTIVE"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/close [post]
func (c *FormController) CloseForm(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.formService.CloseForm(ctx.Request.Context(), claims.CollegeID, formID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// DeleteForm godoc
// @Summary Soft-delete a feedback form
// @Tags Admin - Forms
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id} [delete]
func (c *FormController) DeleteForm(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.formService.DeleteForm(ctx.Request.Context(), claims.CollegeID, formID); err != nil {
		controller.Error(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary Add a question to a form
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Param question body dto.QuestionCreateDTO true "Question data"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 404 {object} dto.ErrorResponse "Form not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/questions [post]
func (c *FormController) AddQuestion(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("AddQuestion: failed to bind body")
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.formService.AddQuestion(ctx.Request.Context(), claims.CollegeID, formID, req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusCreated, resp)
}

// UpdateQuestion godoc
// @Summary Update a question of a form
// @Tags Admin - Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Updated question data"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 404 {object} dto.ErrorResponse "Form or question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/questions/{question_id} [put]
func (c *FormController) UpdateQuestion(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := uintParam(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.formService.UpdateQuestion(ctx.Request.Context(), claims.CollegeID, formID, questionID, req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary Soft-delete a question of a form
// @Tags Admin - Forms
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Param question_id path int true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Form or question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback-forms/{id}/questions/{question_id} [delete]
func (c *FormController) DeleteQuestion(ctx *gin.Context) {
	claims, ok := requireClaims(ctx)
	if !ok {
		return
	}
	formID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := uintParam(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.formService.DeleteQuestion(ctx.Request.Context(), claims.CollegeID, formID, questionID); err != nil {
		controller.Error(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
