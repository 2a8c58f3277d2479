package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/errdefs"
)

// OK writes the uniform success envelope.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse{Status: "success", Data: data})
}

// OKWithResults writes the success envelope including the persisted-answer
// count the submission endpoint reports.
func OKWithResults(c *gin.Context, results int, data interface{}) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Status: "success", Results: &results, Data: data})
}

// Error maps a service error to its HTTP status via the errdefs taxonomy and
// writes the error envelope. Unrecognized errors become a generic 500; their
// detail goes to the log, not the client.
func Error(c *gin.Context, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		message = "internal server error"
	}
	c.JSON(status, dto.ErrorResponse{Status: "error", Message: message})
}

// BindError renders request-binding failures, including a per-field map when
// the body failed validation rather than JSON decoding.
func BindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields[fieldErr.Field()] = validationMessage(fieldErr)
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Status:  "error",
			Message: "validation failed",
			Errors:  fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Status:  "error",
		Message: "invalid request body",
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errdefs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errdefs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errdefs.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, errdefs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errdefs.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "min":
		return "must be at least " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param()
	default:
		return "failed on rule: " + fieldErr.Tag()
	}
}
