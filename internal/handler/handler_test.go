package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizbooks/internal/handler"
	"bizbooks/internal/invoice"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
	"bizbooks/internal/pdf"
	"bizbooks/internal/repository"
	"bizbooks/internal/service"
	"bizbooks/internal/testutil"
)

var fixedNow = time.Date(2026, time.October, 14, 9, 5, 0, 0, time.UTC)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	vendorRepo := repository.NewVendorRepository(db)
	invoices := invoice.NewService(repository.NewInvoiceRepository(db),
		invoice.WithClock(func() time.Time { return fixedNow }),
		invoice.WithLogger(logger.Nop()),
	)

	r := gin.New()
	handler.RegisterRoutes(r, handler.Handlers{
		Invoices:       handler.NewInvoiceHandler(invoices, pdf.NewRenderer(models.Company{Name: "Acme Traders"})),
		Reports:        handler.NewReportHandler(invoices),
		Customers:      handler.NewCustomerHandler(service.NewCustomerService(repository.NewCustomerRepository(db))),
		Vendors:        handler.NewVendorHandler(service.NewVendorService(vendorRepo)),
		Products:       handler.NewProductHandler(service.NewProductService(repository.NewProductRepository(db))),
		VendorInvoices: handler.NewVendorInvoiceHandler(service.NewVendorInvoiceService(repository.NewVendorInvoiceRepository(db), vendorRepo)),
		Public:         handler.NewPublicHandler(models.Company{Name: "Acme Traders", GSTIN: "29ABCDE1234F1Z5"}),
	})
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]any](t, w)["error"].(string)
}

const invoiceBody = `{
	"customer_name": "Asha Traders",
	"customer_mobile": "9876543210",
	"items": [
		{"item_name": "Widget", "quantity": 2, "unit_price": 100, "cgst_rate": 9, "sgst_rate": 9},
		{"item_name": "Gadget", "quantity": 1, "unit_price": "100.00", "cgst_rate": "9", "sgst_rate": "9"}
	]
}`

func createInvoice(t *testing.T, r *gin.Engine, body string) models.Invoice {
	t.Helper()
	w := do(r, http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Invoice](t, w)
}

func TestPing(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestSiteInfo(t *testing.T) {
	w := do(newRouter(t), http.MethodGet, "/api/site-info", "")
	require.Equal(t, http.StatusOK, w.Code)
	site := decode[models.Company](t, w)
	assert.Equal(t, "29ABCDE1234F1Z5", site.GSTIN)
}

func TestCreateInvoiceComputesAmounts(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)

	assert.Equal(t, "INV202610140905", inv.InvoiceNo)
	assert.Equal(t, models.PaymentPending, inv.PaymentStatus)
	assert.Equal(t, "354.00", inv.TotalAmount.StringFixed(2))
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "36.00", inv.Items[0].TaxAmount.StringFixed(2))
	assert.Equal(t, "236.00", inv.Items[0].TotalPrice.StringFixed(2))

	second := createInvoice(t, r, invoiceBody)
	assert.Equal(t, "INV202610140906", second.InvoiceNo)
}

func TestCreateInvoiceIgnoresClientTotals(t *testing.T) {
	body := `{"customer_name":"Asha","total_amount":1,"items":[{"item_name":"Widget","quantity":1,"unit_price":50,"total_price":1}]}`
	inv := createInvoice(t, newRouter(t), body)
	assert.Equal(t, "50.00", inv.TotalAmount.StringFixed(2))
	assert.Equal(t, "50.00", inv.Items[0].TotalPrice.StringFixed(2))
}

func TestCreateInvoiceErrors(t *testing.T) {
	r := newRouter(t)
	createInvoice(t, r, `{"invoice_no":"INV000007","customer_name":"Asha","items":[{"item_name":"Widget","quantity":1,"unit_price":10}]}`)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"malformed json", `{"customer_name":`, http.StatusBadRequest, ""},
		{"missing customer", `{"items":[{"item_name":"Widget","quantity":1,"unit_price":10}]}`, http.StatusBadRequest, ""},
		{"no items", `{"customer_name":"Asha","items":[]}`, http.StatusBadRequest, "items"},
		{"zero quantity", `{"customer_name":"Asha","items":[{"item_name":"Widget","quantity":0,"unit_price":10}]}`, http.StatusBadRequest, "items[0].quantity"},
		{"price scale", `{"customer_name":"Asha","items":[{"item_name":"Widget","quantity":1,"unit_price":10.555}]}`, http.StatusBadRequest, "items[0].unit_price"},
		{"bad status", `{"customer_name":"Asha","payment_status":"lost","items":[{"item_name":"Widget","quantity":1,"unit_price":10}]}`, http.StatusBadRequest, "payment_status"},
		{"duplicate number", `{"invoice_no":"INV000007","customer_name":"Asha","items":[{"item_name":"Widget","quantity":1,"unit_price":10}]}`, http.StatusConflict, "invoice_no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/invoices", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.msg != "" {
				assert.True(t, strings.HasPrefix(errorOf(t, w), tt.msg), errorOf(t, w))
			}
		})
	}

	list := decode[[]models.Invoice](t, do(r, http.MethodGet, "/api/invoices", ""))
	assert.Len(t, list, 1)
}

func TestGetInvoice(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)

	w := do(r, http.MethodGet, "/api/invoices/"+itoa(inv.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, inv.InvoiceNo, decode[models.Invoice](t, w).InvoiceNo)

	w = do(r, http.MethodGet, "/api/invoices/number/"+inv.InvoiceNo, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, inv.ID, decode[models.Invoice](t, w).ID)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/invoices/999", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/invoices/number/INV999999", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/invoices/abc", "").Code)
}

func TestUpdateInvoiceReplacesItems(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)

	body := `{"customer_name":"Asha Traders","payment_status":"paid","items":[{"item_name":"Bolt","quantity":3,"unit_price":"10.00"}]}`
	w := do(r, http.MethodPut, "/api/invoices/"+itoa(inv.ID), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[models.Invoice](t, w)
	assert.Equal(t, inv.InvoiceNo, updated.InvoiceNo)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "30.00", updated.TotalAmount.StringFixed(2))
	require.Len(t, updated.Items, 1)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/invoices/999", body).Code)
}

func TestUpdateStatus(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)
	path := "/api/invoices/" + itoa(inv.ID) + "/status"

	w := do(r, http.MethodPatch, path+"?status=overdue", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PaymentOverdue, decode[models.Invoice](t, w).PaymentStatus)

	w = do(r, http.MethodPatch, path+"?status=unknown", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorOf(t, w), "status"))

	byStatus := decode[[]models.Invoice](t, do(r, http.MethodGet, "/api/invoices/status/OVERDUE", ""))
	assert.Len(t, byStatus, 1)
}

func TestDeleteInvoice(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)
	path := "/api/invoices/" + itoa(inv.ID)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, path, "").Code)
}

func TestInvoiceQueries(t *testing.T) {
	r := newRouter(t)
	createInvoice(t, r, invoiceBody)
	createInvoice(t, r, `{"customer_name":"Bala Stores","customer_mobile":"9123456789","items":[{"item_name":"Nut","quantity":1,"unit_price":5}]}`)

	tests := []struct {
		path string
		want int
	}{
		{"/api/invoices/search?term=asha", 1},
		{"/api/invoices/search?term=", 2},
		{"/api/invoices/customer?name=bala", 1},
		{"/api/invoices/mobile?mobile=9123456789", 1},
		{"/api/invoices/recent", 2},
		{"/api/invoices/date-range?startDate=2026-10-01T00:00:00Z&endDate=2026-10-31T00:00:00Z", 2},
		{"/api/invoices/date-range?startDate=2026-11-01&endDate=2026-11-30", 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Len(t, decode[[]models.Invoice](t, w), tt.want)
		})
	}

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/invoices/date-range?startDate=2026-10-01", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodGet, "/api/invoices/date-range?startDate=2026-10-31T00:00:00Z&endDate=2026-10-01T00:00:00Z", "").Code)
}

func TestNumberEndpoints(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/invoices/generate-number", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"invoice_no":"INV202610140905"}`, w.Body.String())

	createInvoice(t, r, `{"invoice_no":"INV000041","customer_name":"Asha","items":[{"item_name":"Widget","quantity":1,"unit_price":10}]}`)

	w = do(r, http.MethodGet, "/api/invoices/generate-number", "")
	assert.JSONEq(t, `{"invoice_no":"INV000042"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/invoices/check-invoice-no?invoiceNo=INV000041", "")
	assert.JSONEq(t, `{"invoice_no":"INV000041","exists":true}`, w.Body.String())
	w = do(r, http.MethodGet, "/api/invoices/check-invoice-no?invoiceNo=INV000042", "")
	assert.JSONEq(t, `{"invoice_no":"INV000042","exists":false}`, w.Body.String())
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/invoices/check-invoice-no", "").Code)
}

func TestStatsAndRevenue(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)
	createInvoice(t, r, invoiceBody)
	require.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/invoices/"+itoa(inv.ID)+"/status?status=PAID", "").Code)

	w := do(r, http.MethodGet, "/api/invoices/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.InvoiceStats](t, w)
	assert.Equal(t, int64(2), stats.TotalInvoices)
	assert.Equal(t, int64(1), stats.PaidInvoices)
	assert.Equal(t, int64(1), stats.PendingInvoices)
	assert.Equal(t, "354.00", stats.TotalRevenue.StringFixed(2))

	w = do(r, http.MethodGet, "/api/invoices/revenue?year=2026&month=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	revenue := decode[models.MonthlyRevenue](t, w)
	assert.Equal(t, 10, revenue.Month)
	assert.Equal(t, "354.00", revenue.Revenue.StringFixed(2))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/invoices/revenue?year=2026&month=13", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/invoices/revenue?month=x", "").Code)
}

func TestDownloadPDF(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)

	w := do(r, http.MethodGet, "/api/invoices/"+itoa(inv.ID)+"/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), inv.InvoiceNo+".pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/invoices/999/pdf", "").Code)
}

func TestSendWhatsApp(t *testing.T) {
	r := newRouter(t)
	inv := createInvoice(t, r, invoiceBody)
	noMobile := createInvoice(t, r, `{"customer_name":"Walk-in","items":[{"item_name":"Widget","quantity":1,"unit_price":10}]}`)

	// no notifier is wired in tests, so delivery is reported as failed
	w := do(r, http.MethodPost, "/api/invoices/"+itoa(inv.ID)+"/send-whatsapp", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["sent"])

	w = do(r, http.MethodPost, "/api/invoices/"+itoa(noMobile.ID)+"/send-whatsapp", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorOf(t, w), "customer_mobile"))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/invoices/999/send-whatsapp", "").Code)
}

func TestCustomerEndpoints(t *testing.T) {
	r := newRouter(t)
	body := `{"name":" Asha ","email":"Asha@Example.com","phone":"98765-43210","address":"MG Road"}`

	w := do(r, http.MethodPost, "/api/customers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Customer](t, w)
	assert.Equal(t, "Asha", created.Name)
	assert.Equal(t, "asha@example.com", created.Email)
	assert.Equal(t, "9876543210", created.Phone)

	w = do(r, http.MethodPost, "/api/customers", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/customers", `{"name":"Bala","email":"not-an-email","phone":"9123456789"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorOf(t, w), "email"))

	w = do(r, http.MethodGet, "/api/customers/exists?email=ASHA@example.com", "")
	assert.JSONEq(t, `{"email":"ASHA@example.com","exists":true}`, w.Body.String())

	assert.Len(t, decode[[]models.Customer](t, do(r, http.MethodGet, "/api/customers/search?term=98765", "")), 1)

	path := "/api/customers/" + itoa(created.ID)
	w = do(r, http.MethodPut, path, `{"name":"Asha K","email":"asha@example.com","phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Asha K", decode[models.Customer](t, w).Name)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "").Code)
	assert.Empty(t, decode[[]models.Customer](t, do(r, http.MethodGet, "/api/customers", "")))
}

const vendorBody = `{"name":"Metro Supplies","email":"sales@metro.in","phone":"9000000001","address":"Peenya","gst_number":"29abcde1234f1z5"}`

func TestVendorEndpoints(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/vendors", vendorBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vendor := decode[models.Vendor](t, w)
	assert.Equal(t, "29ABCDE1234F1Z5", vendor.GSTNumber)

	w = do(r, http.MethodPost, "/api/vendors", vendorBody)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/vendors", `{"name":"X","email":"x@y.in","phone":"9000000002","address":"A","gst_number":"29ABCDE1234F1Z6"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorOf(t, w), "name"))

	assert.Len(t, decode[[]models.Vendor](t, do(r, http.MethodGet, "/api/vendors?search=metro", "")), 1)
	assert.Len(t, decode[[]models.Vendor](t, do(r, http.MethodGet, "/api/vendors/search?term=zzz", "")), 0)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/vendors/"+itoa(vendor.ID), "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/vendors/"+itoa(vendor.ID), "").Code)
}

func TestProductEndpoints(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/products", `{"name":"Widget","category":"Hardware","unit_price":"120.50","cgst_rate":9,"sgst_rate":9}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[models.Product](t, w)

	w = do(r, http.MethodPost, "/api/products", `{"name":"Widget","category":"Hardware","unit_price":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorOf(t, w), "unit_price"))

	assert.Len(t, decode[[]models.Product](t, do(r, http.MethodGet, "/api/products/search?term=hard", "")), 1)

	path := "/api/products/" + itoa(product.ID)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "").Code)
	assert.Empty(t, decode[[]models.Product](t, do(r, http.MethodGet, "/api/products", "")))
}

func TestVendorInvoiceEndpoints(t *testing.T) {
	r := newRouter(t)
	vendor := decode[models.Vendor](t, do(r, http.MethodPost, "/api/vendors", vendorBody))

	body := `{"invoice_no":"PUR-1","vendor_id":` + itoa(vendor.ID) + `,"date_time":"2026-10-10T10:00:00Z",
		"items":[{"product_id":1,"product_name":"Widget","quantity":2,"unit_price":100,"cgst_percent":9,"sgst_percent":9}]}`
	w := do(r, http.MethodPost, "/api/vendor-invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.VendorInvoice](t, w)
	assert.Equal(t, "Metro Supplies", created.VendorName)
	assert.Equal(t, "200.00", created.Subtotal.StringFixed(2))
	assert.Equal(t, "36.00", created.TotalTax.StringFixed(2))
	assert.Equal(t, "236.00", created.GrandTotal.StringFixed(2))

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/api/vendor-invoices", body).Code)

	w = do(r, http.MethodPost, "/api/vendor-invoices",
		`{"invoice_no":"PUR-2","vendor_id":999,"items":[{"product_name":"Widget","quantity":1,"unit_price":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorOf(t, w), "vendor_id"))

	tests := []struct {
		path string
		want int
	}{
		{"/api/vendor-invoices", 1},
		{"/api/vendor-invoices/vendor/" + itoa(vendor.ID), 1},
		{"/api/vendor-invoices/search?invoiceNo=PUR-1", 1},
		{"/api/vendor-invoices/search?invoiceNo=PUR-9", 0},
		{"/api/vendor-invoices/search?vendorName=metro", 1},
		{"/api/vendor-invoices/search?phone=9000000001", 1},
		{"/api/vendor-invoices/date-range?startDate=2026-10-01&endDate=2026-10-31", 1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Len(t, decode[[]models.VendorInvoice](t, w), tt.want)
		})
	}
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/vendor-invoices/search", "").Code)

	w = do(r, http.MethodGet, "/api/vendor-invoices/number/PUR-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.VendorInvoice](t, w).ID)

	path := "/api/vendor-invoices/" + itoa(created.ID)
	update := `{"invoice_no":"PUR-1","vendor_id":` + itoa(vendor.ID) + `,
		"items":[{"product_name":"Bolt","quantity":10,"unit_price":"2.50"}]}`
	w = do(r, http.MethodPut, path, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.VendorInvoice](t, w)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "25.00", updated.GrandTotal.StringFixed(2))

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, path, "").Code)
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
