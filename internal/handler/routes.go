package handler

import "github.com/gin-gonic/gin"

// Handlers groups every resource handler mounted by RegisterRoutes.
type Handlers struct {
	Invoices       *InvoiceHandler
	Reports        *ReportHandler
	Customers      *CustomerHandler
	Vendors        *VendorHandler
	Products       *ProductHandler
	VendorInvoices *VendorInvoiceHandler
	Public         *PublicHandler
}

// RegisterRoutes mounts the REST API under /api plus the /ping health check.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/ping", h.Public.Ping)

	api := r.Group("/api")
	api.GET("/site-info", h.Public.GetSiteInfo)

	invoiceRoutes := api.Group("/invoices")
	{
		invoiceRoutes.GET("", h.Invoices.ListInvoices)
		invoiceRoutes.POST("", h.Invoices.CreateInvoice)
		invoiceRoutes.GET("/search", h.Invoices.Search)
		invoiceRoutes.GET("/customer", h.Invoices.ByCustomer)
		invoiceRoutes.GET("/mobile", h.Invoices.ByMobile)
		invoiceRoutes.GET("/date-range", h.Invoices.ByDateRange)
		invoiceRoutes.GET("/recent", h.Invoices.Recent)
		invoiceRoutes.GET("/status/:status", h.Invoices.ByStatus)
		invoiceRoutes.GET("/generate-number", h.Invoices.GenerateNumber)
		invoiceRoutes.GET("/check-invoice-no", h.Invoices.CheckNumber)
		invoiceRoutes.GET("/number/:invoiceNo", h.Invoices.GetByNumber)
		invoiceRoutes.GET("/stats", h.Reports.GetStats)
		invoiceRoutes.GET("/revenue", h.Reports.GetMonthlyRevenue)
		invoiceRoutes.GET("/:id", h.Invoices.GetInvoice)
		invoiceRoutes.PUT("/:id", h.Invoices.UpdateInvoice)
		invoiceRoutes.DELETE("/:id", h.Invoices.DeleteInvoice)
		invoiceRoutes.PATCH("/:id/status", h.Invoices.UpdateStatus)
		invoiceRoutes.POST("/:id/send-whatsapp", h.Invoices.SendWhatsApp)
		invoiceRoutes.GET("/:id/pdf", h.Invoices.DownloadPDF)
	}

	customerRoutes := api.Group("/customers")
	{
		customerRoutes.GET("", h.Customers.ListCustomers)
		customerRoutes.POST("", h.Customers.CreateCustomer)
		customerRoutes.GET("/search", h.Customers.SearchCustomers)
		customerRoutes.GET("/exists", h.Customers.ExistsByEmail)
		customerRoutes.GET("/:id", h.Customers.GetCustomer)
		customerRoutes.PUT("/:id", h.Customers.UpdateCustomer)
		customerRoutes.DELETE("/:id", h.Customers.DeleteCustomer)
	}

	vendorRoutes := api.Group("/vendors")
	{
		vendorRoutes.GET("", h.Vendors.ListVendors)
		vendorRoutes.POST("", h.Vendors.CreateVendor)
		vendorRoutes.GET("/search", h.Vendors.SearchVendors)
		vendorRoutes.GET("/:id", h.Vendors.GetVendor)
		vendorRoutes.PUT("/:id", h.Vendors.UpdateVendor)
		vendorRoutes.DELETE("/:id", h.Vendors.DeleteVendor)
	}

	productRoutes := api.Group("/products")
	{
		productRoutes.GET("", h.Products.ListProducts)
		productRoutes.POST("", h.Products.CreateProduct)
		productRoutes.GET("/search", h.Products.SearchProducts)
		productRoutes.GET("/:id", h.Products.GetProduct)
		productRoutes.PUT("/:id", h.Products.UpdateProduct)
		productRoutes.DELETE("/:id", h.Products.DeleteProduct)
	}

	vendorInvoiceRoutes := api.Group("/vendor-invoices")
	{
		vendorInvoiceRoutes.GET("", h.VendorInvoices.ListVendorInvoices)
		vendorInvoiceRoutes.POST("", h.VendorInvoices.CreateVendorInvoice)
		vendorInvoiceRoutes.GET("/search", h.VendorInvoices.Search)
		vendorInvoiceRoutes.GET("/date-range", h.VendorInvoices.ByDateRange)
		vendorInvoiceRoutes.GET("/number/:invoiceNo", h.VendorInvoices.GetByNumber)
		vendorInvoiceRoutes.GET("/vendor/:vendorId", h.VendorInvoices.ByVendor)
		vendorInvoiceRoutes.GET("/:id", h.VendorInvoices.GetVendorInvoice)
		vendorInvoiceRoutes.PUT("/:id", h.VendorInvoices.UpdateVendorInvoice)
		vendorInvoiceRoutes.DELETE("/:id", h.VendorInvoices.DeleteVendorInvoice)
	}
}
