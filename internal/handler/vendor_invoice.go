package handler

import (
	"net/http"
	"time"

	"bizbooks/internal/models"
	"bizbooks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type VendorInvoiceHandler struct {
	invoices *service.VendorInvoiceService
}

func NewVendorInvoiceHandler(invoices *service.VendorInvoiceService) *VendorInvoiceHandler {
	return &VendorInvoiceHandler{invoices: invoices}
}

type VendorInvoiceItemRequest struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name" binding:"required"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CGSTPercent decimal.Decimal `json:"cgst_percent"`
	SGSTPercent decimal.Decimal `json:"sgst_percent"`
}

// VendorInvoiceRequest carries no totals; they are computed from the items.
type VendorInvoiceRequest struct {
	InvoiceNo     string                     `json:"invoice_no" binding:"required"`
	VendorID      uint                       `json:"vendor_id" binding:"required"`
	VendorName    string                     `json:"vendor_name"`
	VendorAddress string                     `json:"vendor_address"`
	VendorPhone   string                     `json:"vendor_phone"`
	DateTime      *time.Time                 `json:"date_time"`
	Items         []VendorInvoiceItemRequest `json:"items" binding:"required"`
}

func (r VendorInvoiceRequest) toModel() *models.VendorInvoice {
	inv := &models.VendorInvoice{
		InvoiceNo:     r.InvoiceNo,
		VendorID:      r.VendorID,
		VendorName:    r.VendorName,
		VendorAddress: r.VendorAddress,
		VendorPhone:   r.VendorPhone,
	}
	if r.DateTime != nil {
		inv.DateTime = *r.DateTime
	}
	for _, item := range r.Items {
		inv.Items = append(inv.Items, models.VendorInvoiceItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Category:    item.Category,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			CGSTPercent: item.CGSTPercent,
			SGSTPercent: item.SGSTPercent,
		})
	}
	return inv
}

func (h *VendorInvoiceHandler) ListVendorInvoices(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	h.list(c, invoices, err)
}

func (h *VendorInvoiceHandler) GetVendorInvoice(c *gin.Context) {
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

func (h *VendorInvoiceHandler) GetByNumber(c *gin.Context) {
	inv, err := h.invoices.GetByNumber(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *VendorInvoiceHandler) ByVendor(c *gin.Context) {
	vendorID, ok := pathID(c, "vendorId")
	if !ok {
		return
	}
	invoices, err := h.invoices.ByVendorID(c.Request.Context(), vendorID)
	h.list(c, invoices, err)
}

// Search uses the first of invoiceNo, vendorName or phone that is present.
func (h *VendorInvoiceHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		invoices []models.VendorInvoice
		err      error
	)
	switch {
	case c.Query("invoiceNo") != "":
		invoices, err = h.invoices.ByNumber(ctx, c.Query("invoiceNo"))
	case c.Query("vendorName") != "":
		invoices, err = h.invoices.ByVendorName(ctx, c.Query("vendorName"))
	case c.Query("phone") != "":
		invoices, err = h.invoices.ByVendorPhone(ctx, c.Query("phone"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "one of invoiceNo, vendorName or phone is required"})
		return
	}
	h.list(c, invoices, err)
}

func (h *VendorInvoiceHandler) ByDateRange(c *gin.Context) {
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

func (h *VendorInvoiceHandler) CreateVendorInvoice(c *gin.Context) {
	var req VendorInvoiceRequest
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

func (h *VendorInvoiceHandler) UpdateVendorInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req VendorInvoiceRequest
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

func (h *VendorInvoiceHandler) DeleteVendorInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor invoice deleted successfully"})
}

func (h *VendorInvoiceHandler) list(c *gin.Context, invoices []models.VendorInvoice, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
