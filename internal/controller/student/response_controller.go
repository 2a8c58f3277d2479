package student

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/collegekit/feedback-api/internal/controller"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/service"
)

// ResponseController is the public, token-authenticated student surface. No
// session, no JWT: the one-time access token in the URL is the credential.
type ResponseController struct {
	submissionService service.SubmissionService
}

func NewResponseController(submissionService service.SubmissionService) *ResponseController {
	return &ResponseController{submissionService: submissionService}
}

// Submit godoc
// @Summary Submit all feedback answers for an access token
// @Description Persists every answer of one respondent atomically and consumes the one-time token. Body keys are question IDs, values are the answers.
// @Tags Student - Responses
// @Accept json
// @Produce json
// @Param token path string true "One-time access token"
// @Param answers body object true "Map of question ID to answer value"
// @Success 200 {object} dto.SuccessResponse "Responses persisted; results carries the accepted-answer count"
// @Failure 400 {object} dto.ErrorResponse "Malformed body, or unknown question in strict mode"
// @Failure 403 {object} dto.ErrorResponse "Form not open for submission or window closed"
// @Failure 404 {object} dto.ErrorResponse "Unknown token or deleted form"
// @Failure 409 {object} dto.ErrorResponse "Feedback already submitted for this token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student-responses/submit/{token} [post]
func (c *ResponseController) Submit(ctx *gin.Context) {
	token := ctx.Param("token")

	var body map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Warn().Err(err).Msg("Submit: failed to bind answers payload")
		controller.BindError(ctx, err)
		return
	}

	data, err := c.submissionService.Submit(ctx.Request.Context(), token, body)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OKWithResults(ctx, len(data.Responses), data)
}

// CheckSubmission godoc
// @Summary Check whether feedback was already submitted for a token
// @Description Read-only status probe the portal polls before rendering the form. Never mutates the grant.
// @Tags Student - Responses
// @Produce json
// @Param token path string true "One-time access token"
// @Success 200 {object} dto.SuccessResponse "data.isSubmitted reports the grant state"
// @Failure 404 {object} dto.ErrorResponse "Unknown token or deleted form"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /student-responses/check-submission/{token} [get]
func (c *ResponseController) CheckSubmission(ctx *gin.Context) {
	token := ctx.Param("token")

	submitted, err := c.submissionService.CheckStatus(ctx.Request.Context(), token)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, dto.CheckSubmissionData{IsSubmitted: submitted})
}
