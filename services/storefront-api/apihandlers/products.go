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

func boolPtr(v bool) *bool {
	return &v
}

func (h *HttpEndpoints) getProducts(c *gin.Context) {
	pq := paginationFromQuery(c, 12, 50)

	filter := catalog.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		IsActive: boolPtr(true),
	}
	if c.Query("featured") == "true" {
		filter.Featured = boolPtr(true)
	}

	products, total, err := h.catalogDB.GetProducts(filter, c.Query("sort"), pq.Page, pq.Limit)
	if err != nil {
		slog.Error("failed to fetch products", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihelpers.SuccessResponseWithPagination(c, http.StatusOK, "Products fetched", products,
		apihelpers.NewPagination(pq.Page, pq.Limit, total))
}

func (h *HttpEndpoints) getProductBySlug(c *gin.Context) {
	product, err := h.catalogDB.GetProductBySlug(c.Param("slug"))
	if err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "product not found")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "Product fetched", product)
}

func (h *HttpEndpoints) getAdminProducts(c *gin.Context) {
	pq := paginationFromQuery(c, 20, 100)

	filter := catalog.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if featured := c.Query("featured"); featured != "" {
		filter.Featured = boolPtr(featured == "true")
	}
	if isActive := c.Query("isActive"); isActive != "" {
		filter.IsActive = boolPtr(isActive == "true")
	}

	products, total, err := h.catalogDB.GetProducts(filter, catalog.SORT_NEWEST, pq.Page, pq.Limit)
	if err != nil {
		slog.Error("failed to fetch admin products", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihelpers.SuccessResponseWithPagination(c, http.StatusOK, "Admin products fetched", products,
		apihelpers.NewPagination(pq.Page, pq.Limit, total))
}

type ProductReq struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"shortDescription"`
	Category         string                 `json:"category"`
	Images           []catalog.ProductImage `json:"images"`
	Price            *float64               `json:"price"`
	PriceOnRequest   bool                   `json:"priceOnRequest"`
	Material         string                 `json:"material"`
	Weight           string                 `json:"weight"`
	Tags             []string               `json:"tags"`
	Featured         bool                   `json:"featured"`
	IsActive         *bool                  `json:"isActive"`
	Stock            *int64                 `json:"stock"`
}

func (req *ProductReq) validate() string {
	if req.Name == "" || req.Description == "" || req.Category == "" {
		return "name, description and category are required"
	}
	if len(req.Images) == 0 {
		return "at least one product image is required"
	}
	if !req.PriceOnRequest && req.Price == nil {
		return "either price or priceOnRequest must be provided"
	}
	if req.Price != nil && *req.Price < 0 {
		return "price cannot be negative"
	}
	return ""
}

func (h *HttpEndpoints) createProduct(c *gin.Context) {
	var req ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, msg)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	stock := int64(1)
	if req.Stock != nil {
		stock = *req.Stock
	}

	product, err := h.catalogDB.CreateProduct(catalog.Product{
		Name:             req.Name,
		Slug:             utils.Slugify(req.Name),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Images:           req.Images,
		Price:            req.Price,
		PriceOnRequest:   req.PriceOnRequest,
		Material:         req.Material,
		Weight:           req.Weight,
		Tags:             req.Tags,
		Featured:         req.Featured,
		IsActive:         isActive,
		Stock:            stock,
	})
	if err != nil {
		slog.Error("failed to create product", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cacheService.InvalidatePatterns(CACHE_KEY_PREFIX_PRODUCTS + "*")

	apihelpers.SuccessResponse(c, http.StatusCreated, "Product created", product)
}

func (h *HttpEndpoints) updateProduct(c *gin.Context) {
	var req ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, msg)
		return
	}

	update := bson.M{
		"name":             req.Name,
		"slug":             utils.Slugify(req.Name),
		"description":      req.Description,
		"shortDescription": req.ShortDescription,
		"category":         req.Category,
		"images":           req.Images,
		"priceOnRequest":   req.PriceOnRequest,
		"material":         req.Material,
		"weight":           req.Weight,
		"tags":             req.Tags,
		"featured":         req.Featured,
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}
	if req.Stock != nil {
		update["stock"] = *req.Stock
	}

	product, err := h.catalogDB.UpdateProduct(c.Param("id"), update)
	if err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "product not found")
		return
	}

	h.cacheService.InvalidatePatterns(CACHE_KEY_PREFIX_PRODUCTS + "*")

	apihelpers.SuccessResponse(c, http.StatusOK, "Product updated", product)
}

func (h *HttpEndpoints) deleteProduct(c *gin.Context) {
	if err := h.catalogDB.DeleteProduct(c.Param("id")); err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "product not found")
		return
	}

	h.cacheService.InvalidatePatterns(CACHE_KEY_PREFIX_PRODUCTS + "*")

	apihelpers.SuccessResponse(c, http.StatusOK, "Product deleted", nil)
}

func (h *HttpEndpoints) toggleProductFeatured(c *gin.Context) {
	product, err := h.catalogDB.GetProductByID(c.Param("id"))
	if err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "product not found")
		return
	}

	updated, err := h.catalogDB.SetProductFeatured(product.ID.Hex(), !product.Featured)
	if err != nil {
		slog.Error("failed to toggle featured flag", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cacheService.InvalidatePatterns(CACHE_KEY_PREFIX_PRODUCTS + "*")

	apihelpers.SuccessResponse(c, http.StatusOK, "Product featured flag updated", updated)
}
