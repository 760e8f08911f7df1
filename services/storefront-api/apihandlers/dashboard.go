package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	"github.com/babulal-jewellers/storefront-backend/pkg/db/enquiry"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

func (h *HttpEndpoints) getDashboard(c *gin.Context) {
	totalProducts, err := h.catalogDB.CountProducts(bson.M{"isActive": true})
	if err != nil {
		slog.Error("failed to count products", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	featuredProducts, err := h.catalogDB.CountProducts(bson.M{"featured": true})
	if err != nil {
		slog.Error("failed to count featured products", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	totalCategories, err := h.catalogDB.CountCategories(bson.M{"isActive": true})
	if err != nil {
		slog.Error("failed to count categories", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	totalEnquiries, err := h.enquiryDB.CountEnquiries(bson.M{})
	if err != nil {
		slog.Error("failed to count enquiries", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	newEnquiries, err := h.enquiryDB.CountEnquiries(bson.M{"status": enquiry.STATUS_NEW})
	if err != nil {
		slog.Error("failed to count new enquiries", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	// missing top product is not an error on a fresh installation
	topProduct, err := h.catalogDB.GetTopViewedProduct()
	if err != nil {
		topProduct = nil
	}

	chartData, err := h.enquiryDB.GetMonthlyEnquiryCounts()
	if err != nil {
		slog.Error("failed to build enquiry chart", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	recentEnquiries, err := h.enquiryDB.GetRecentEnquiries(5)
	if err != nil {
		slog.Error("failed to fetch recent enquiries", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihelpers.SuccessResponse(c, http.StatusOK, "Dashboard data", gin.H{
		"kpis": gin.H{
			"totalProducts":    totalProducts,
			"totalEnquiries":   totalEnquiries,
			"totalCategories":  totalCategories,
			"newEnquiries":     newEnquiries,
			"featuredProducts": featuredProducts,
		},
		"topProduct":      topProduct,
		"chartData":       chartData,
		"recentEnquiries": recentEnquiries,
	})
}
