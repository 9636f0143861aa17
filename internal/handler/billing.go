package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"bizbooks/internal/invoice"
	"bizbooks/internal/models"
	"bizbooks/internal/pdf"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InvoiceHandler struct {
	invoices *invoice.Service
	renderer *pdf.Renderer
}

func NewInvoiceHandler(invoices *invoice.Service, renderer *pdf.Renderer) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, renderer: renderer}
}

type InvoiceItemRequest struct {
	ItemName        string          `json:"item_name" binding:"required"`
	ItemDescription string          `json:"item_description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CGSTRate        decimal.Decimal `json:"cgst_rate"`
	SGSTRate        decimal.Decimal `json:"sgst_rate"`
}

// InvoiceRequest is the body of create and update. Derived amounts are never read from it.
type InvoiceRequest struct {
	InvoiceNo       string               `json:"invoice_no"`
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerMobile  string               `json:"customer_mobile"`
	CustomerAddress string               `json:"customer_address"`
	InvoiceDate     *time.Time           `json:"invoice_date"`
	PaymentStatus   string               `json:"payment_status"`
	Items           []InvoiceItemRequest `json:"items" binding:"required"`
}

func (r InvoiceRequest) toModel() *models.Invoice {
	inv := &models.Invoice{
		InvoiceNo:       r.InvoiceNo,
		CustomerName:    r.CustomerName,
		CustomerMobile:  r.CustomerMobile,
		CustomerAddress: r.CustomerAddress,
	}
	if r.InvoiceDate != nil {
		inv.InvoiceDate = *r.InvoiceDate
	}
	if r.PaymentStatus != "" {
		// unknown values are passed through and rejected by the service
		inv.PaymentStatus, _ = models.ParsePaymentStatus(r.PaymentStatus)
	}
	for _, item := range r.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			ItemName:        item.ItemName,
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			CGSTRate:        item.CGSTRate,
			SGSTRate:        item.SGSTRate,
		})
	}
	return inv
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	inv, err := h.invoices.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	inv, err := h.invoices.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.UpdateStatus(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	inv, err := h.invoices.GetByNumber(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) Search(c *gin.Context) {
	invoices, err := h.invoices.Search(c.Request.Context(), c.Query("term"))
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) ByCustomer(c *gin.Context) {
	invoices, err := h.invoices.ByCustomerName(c.Request.Context(), c.Query("name"))
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) ByMobile(c *gin.Context) {
	invoices, err := h.invoices.ByMobile(c.Request.Context(), c.Query("mobile"))
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) ByDateRange(c *gin.Context) {
	from, ok := queryTime(c, "startDate")
	if !ok {
		return
	}
	to, ok := queryTime(c, "endDate")
	if !ok {
		return
	}
	invoices, err := h.invoices.ByDateRange(c.Request.Context(), from, to)
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) Recent(c *gin.Context) {
	invoices, err := h.invoices.Recent(c.Request.Context())
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) ByStatus(c *gin.Context) {
	invoices, err := h.invoices.ByStatus(c.Request.Context(), c.Param("status"))
	h.list(c, invoices, err)
}

func (h *InvoiceHandler) list(c *gin.Context, invoices []models.Invoice, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GenerateNumber(c *gin.Context) {
	next, err := h.invoices.NextNumber(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_no": next})
}

func (h *InvoiceHandler) CheckNumber(c *gin.Context) {
	invoiceNo := c.Query("invoiceNo")
	if invoiceNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invoiceNo is required"})
		return
	}
	exists, err := h.invoices.NumberExists(c.Request.Context(), invoiceNo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_no": invoiceNo, "exists": exists})
}

func (h *InvoiceHandler) SendWhatsApp(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sent, err := h.invoices.SendNotification(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !sent {
		c.JSON(http.StatusInternalServerError, gin.H{"sent": false, "error": "Failed to send WhatsApp notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "message": "WhatsApp notification sent successfully"})
}

func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// rendered to a buffer so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, inv); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, inv.InvoiceNo))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
