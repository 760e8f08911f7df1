package apihandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	"github.com/babulal-jewellers/storefront-backend/pkg/db/enquiry"
	"github.com/babulal-jewellers/storefront-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EnquiryReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Product     string `json:"product"`
	ProductName string `json:"productName"`
	Message     string `json:"message"`
}

func (h *HttpEndpoints) createEnquiry(c *gin.Context) {
	var req EnquiryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	if req.Name == "" || req.Message == "" || !utils.CheckEmailFormat(req.Email) {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "name, a valid email and a message are required")
		return
	}
	if len(req.Message) > 2000 {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "message too long")
		return
	}

	newEnquiry := enquiry.Enquiry{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ProductName: req.ProductName,
		Message:     req.Message,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}
	if req.Product != "" {
		productID, err := primitive.ObjectIDFromHex(req.Product)
		if err == nil {
			newEnquiry.Product = &productID
		}
	}

	created, err := h.enquiryDB.CreateEnquiry(newEnquiry)
	if err != nil {
		slog.Error("failed to create enquiry", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.notifyAdminAboutEnquiry(created)

	apihelpers.SuccessResponse(c, http.StatusCreated, "Enquiry submitted", created)
}

// notifyAdminAboutEnquiry sends the notification email in the background
// so a slow SMTP server never delays the customer's response.
func (h *HttpEndpoints) notifyAdminAboutEnquiry(e *enquiry.Enquiry) {
	if h.mailer == nil || h.adminEmail == "" {
		return
	}

	subject := fmt.Sprintf("New Enquiry from %s", e.Name)
	if e.ProductName != "" {
		subject = fmt.Sprintf("%s - %s", subject, e.ProductName)
	}
	htmlContent := buildEnquiryEmailHTML(e)

	go func() {
		if err := h.mailer.SendMail([]string{h.adminEmail}, subject, htmlContent); err != nil {
			slog.Error("failed to send enquiry notification", slog.String("error", err.Error()), slog.String("enquiryID", e.ID.Hex()))
		}
	}()
}

func buildEnquiryEmailHTML(e *enquiry.Enquiry) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><body style="font-family: Arial, sans-serif; background: #f9f9f7;">`)
	sb.WriteString(`<div style="max-width: 600px; margin: 40px auto; background: #fff; border: 1px solid #e0e0d8; border-radius: 8px;">`)
	sb.WriteString(`<div style="background: #52573a; color: #fff; padding: 28px 32px;"><h1 style="margin: 0; font-size: 22px;">New Customer Enquiry</h1></div>`)
	sb.WriteString(`<div style="padding: 28px 32px; color: #333;">`)
	sb.WriteString(fmt.Sprintf(`<p><strong>Customer Name:</strong> %s</p>`, e.Name))
	sb.WriteString(fmt.Sprintf(`<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>`, e.Email, e.Email))
	if e.Phone != "" {
		sb.WriteString(fmt.Sprintf(`<p><strong>Phone:</strong> %s</p>`, e.Phone))
	}
	if e.ProductName != "" {
		sb.WriteString(fmt.Sprintf(`<p><strong>Product Enquired:</strong> %s</p>`, e.ProductName))
	}
	sb.WriteString(fmt.Sprintf(`<div style="background: #f3f4ee; border-radius: 6px; padding: 16px; font-style: italic;">%s</div>`,
		strings.ReplaceAll(e.Message, "\n", "<br/>")))
	sb.WriteString(fmt.Sprintf(`<p style="margin-top: 24px; color: #666;">Received on %s</p>`, time.Now().Format(time.RFC1123)))
	sb.WriteString(`</div><div style="background: #f3f4ee; padding: 16px 32px; font-size: 12px; color: #999;">Admin Dashboard - Do not reply to this message</div>`)
	sb.WriteString(`</div></body></html>`)
	return sb.String()
}

func (h *HttpEndpoints) getEnquiries(c *gin.Context) {
	pq := paginationFromQuery(c, 20, 100)

	status := c.Query("status")
	if status != "" && !enquiry.IsValidStatus(status) {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	enquiries, total, err := h.enquiryDB.GetEnquiries(status, pq.Page, pq.Limit)
	if err != nil {
		slog.Error("failed to fetch enquiries", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihelpers.SuccessResponseWithPagination(c, http.StatusOK, "Enquiries fetched", enquiries,
		apihelpers.NewPagination(pq.Page, pq.Limit, total))
}

type UpdateEnquiryStatusReq struct {
	Status string `json:"status"`
}

func (h *HttpEndpoints) updateEnquiryStatus(c *gin.Context) {
	var req UpdateEnquiryStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if !enquiry.IsValidStatus(req.Status) {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid status")
		return
	}

	updated, err := h.enquiryDB.UpdateEnquiryStatus(c.Param("id"), req.Status)
	if err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "enquiry not found")
		return
	}

	apihelpers.SuccessResponse(c, http.StatusOK, "Enquiry status updated", updated)
}

func (h *HttpEndpoints) deleteEnquiry(c *gin.Context) {
	if err := h.enquiryDB.DeleteEnquiry(c.Param("id")); err != nil {
		apihelpers.ErrorResponse(c, http.StatusNotFound, "enquiry not found")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "Enquiry deleted", nil)
}
