package handler

import (
	"net/http"

	"bizbooks/internal/models"

	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	site models.Company
}

func NewPublicHandler(site models.Company) *PublicHandler {
	return &PublicHandler{site: site}
}

// GetSiteInfo returns the company profile printed on invoices.
func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.site)
}

func (h *PublicHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
