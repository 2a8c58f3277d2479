// Package admin carries the JWT-guarded controllers of the admin panel:
// authentication, form and question management, grant distribution,
// categories and reporting.
package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/middleware"
)

// requireClaims fetches the claims RequireAdmin stored; a miss means the
// route was wired without the middleware, answered as 401.
func requireClaims(ctx *gin.Context) (middleware.AdminClaims, bool) {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Status:  "error",
			Message: "missing bearer token",
		})
	}
	return claims, ok
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Status:  "error",
			Message: "invalid " + name + " format",
		})
		return 0, false
	}
	return uint(value), true
}
