package routes

import (
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/category"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// CategoryRoutes exposes the shared category list. Writes also need the
// admin key.
func CategoryRoutes(r *gin.RouterGroup, s category.Service, adminKey string) {
	r.GET("", listCategories(s))

	adminGroup := r.Group("", middleware.Admin(adminKey))
	{
		adminGroup.POST("", createCategory(s))
		adminGroup.PUT("/:id", updateCategory(s))
		adminGroup.DELETE("/:id", deleteCategory(s))
	}
}

// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param direction query string false "inflow or outflow"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /categories [get]
func listCategories(s category.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		categories, err := s.List(c, c.Query("direction"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"categories": categories})
	}
}

// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Admin-Key header string true "admin key"
// @Param body body dtos.CategoryDTO true "category"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories [post]
func createCategory(s category.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.CategoryDTO
		if !bind(c, &req) {
			return
		}

		created, err := s.Create(c, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{"message": constant.ADDED, "category": created})
	}
}

// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Admin-Key header string true "admin key"
// @Param id path int true "id"
// @Param body body dtos.CategoryDTO true "category"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories/{id} [put]
func updateCategory(s category.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req dtos.CategoryDTO
		if !bind(c, &req) {
			return
		}

		updated, err := s.Update(c, id, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.UPDATED, "category": updated})
	}
}

// @Summary Delete a category
// @Description Refused while transactions use it.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param X-Admin-Key header string true "admin key"
// @Param id path int true "id"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories/{id} [delete]
func deleteCategory(s category.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := s.Delete(c, id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.DELETED})
	}
}
