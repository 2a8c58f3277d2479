package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collegekit/feedback-api/internal/controller"
	"github.com/collegekit/feedback-api/internal/dto"
	"github.com/collegekit/feedback-api/internal/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories godoc
// @Summary List question categories
// @Tags Admin - Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /question-categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	resp, err := c.categoryService.List(ctx.Request.Context())
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// GetCategory godoc
// @Summary Get a question category
// @Tags Admin - Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /question-categories/{id} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	categoryID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.categoryService.Get(ctx.Request.Context(), categoryID)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// CreateCategory godoc
// @Summary Create a question category
// @Tags Admin - Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body dto.CategoryCreateDTO true "Category data"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /question-categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.categoryService.Create(ctx.Request.Context(), req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusCreated, resp)
}

// UpdateCategory godoc
// @Summary Update a question category
// @Tags Admin - Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body dto.CategoryCreateDTO true "Updated category data"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /question-categories/{id} [put]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	categoryID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.categoryService.Update(ctx.Request.Context(), categoryID, req)
	if err != nil {
		controller.Error(ctx, err)
		return
	}
	controller.OK(ctx, http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary Soft-delete a question category
// @Tags Admin - Categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /question-categories/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	categoryID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.categoryService.Delete(ctx.Request.Context(), categoryID); err != nil {
		controller.Error(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
