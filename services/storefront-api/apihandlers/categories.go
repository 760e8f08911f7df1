package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	"github.com/babulal-jewellers/storefront-backend/pkg/db/catalog"
	"github.com/babulal-jewellers/storefront-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

func (h *HttpEndpoints) getCategories(c *gin.Context) {
	categories, err := h.catalogDB.GetActiveCategories()
	if err != nil {
		slog.Error("failed to fetch categories", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "Categories fetched", categories)
}

func (h *HttpEndpoints) getAdminCategories(c *gin.Context) {
	categories, err := h.catalogDB.GetAllCategories()
	if err != nil {
		slog.Error("failed to fetch categories", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "Admin categories fetched", categories)
}

type CategoryReq struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Image       catalog.CategoryImage `json:"image"`
	IsActive    *bool                 `json:"isActive"`
	SortOrder   int                   `json:"sortOrder"`
}

func (h *HttpEndpoints) createCategory(c *gin.Context) {
	var req CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "category name is required")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category, err := h.catalogDB.CreateCategory(catalog.Category{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Image:       req.Image,
		IsActive:    isActive,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		slog.Error("failed to create category", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusConflict, "category could not be created")
		return
	}

	h.cacheService.InvalidatePatterns("categories:*")

	apihelpers.SuccessResponse(c, http.StatusCreated, "Category created", category)
}

func (h *HttpEndpoints) updateCategory(c *gin.Context) {
	var req CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "category name is required")
		return
	}

	update := bson.M{
		"name":        req.Name,
		"slug":        utils.Slugify(req.Name),
		"description": req.Description,
		"image":       req.Image,
		"sortOrder":   req.SortOrder,
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	category, err := h.catalogDB.UpdateCategory(c.Param("id"), update)
	if err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	h.cacheService.InvalidatePatterns("categories:*", CACHE_KEY_PREFIX_PRODUCTS+"*")

	apihelpers.SuccessResponse(c, http.StatusOK, "Category updated", category)
}

// deleteCategory refuses to remove a category that still has products.
func (h *HttpEndpoints) deleteCategory(c *gin.Context) {
	category, err := h.catalogDB.GetCategoryByID(c.Param("id"))
	if err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	productCount, err := h.catalogDB.CountProductsInCategory(category.Slug)
	if err != nil {
		slog.Error("failed to count products in category", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if productCount > 0 {
		apihelpers.ErrorResponse(c, http.StatusConflict, "category still has products assigned")
		return
	}

	if err := h.catalogDB.DeleteCategory(category.ID.Hex()); err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "category not found")
		return
	}

	h.cacheService.InvalidatePatterns("categories:*")

	apihelpers.SuccessResponse(c, http.StatusOK, "Category deleted", nil)
}
