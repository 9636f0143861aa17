package handler

import (
	"net/http"

	"bizbooks/internal/models"
	"bizbooks/internal/service"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendors *service.VendorService
}

func NewVendorHandler(vendors *service.VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

type VendorRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Address     string `json:"address" binding:"required"`
	GSTNumber   string `json:"gst_number" binding:"required"`
	Description string `json:"description"`
}

func (r VendorRequest) toModel() *models.Vendor {
	return &models.Vendor{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		GSTNumber:   r.GSTNumber,
		Description: r.Description,
	}
}

// ListVendors filters by ?search= when given.
func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendors.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (h *VendorHandler) GetVendor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	vendor, err := h.vendors.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	vendor, err := h.vendors.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	vendor, err := h.vendors.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.vendors.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}

func (h *VendorHandler) SearchVendors(c *gin.Context) {
	vendors, err := h.vendors.Search(c.Request.Context(), c.Query("term"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}
