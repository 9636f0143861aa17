package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"bizbooks/config"
	"bizbooks/internal/handler"
	"bizbooks/internal/invoice"
	"bizbooks/internal/logger"
	"bizbooks/internal/middleware"
	"bizbooks/internal/notify"
	"bizbooks/internal/pdf"
	"bizbooks/internal/repository"
	"bizbooks/internal/service"
	"bizbooks/pkg/database"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := setup()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, db)
	},
}

func newInvoiceService(cfg *config.Config, db *gorm.DB) *invoice.Service {
	opts := []invoice.Option{
		invoice.WithTimeout(cfg.Store.Timeout),
		invoice.WithAutoNotify(cfg.WhatsApp.AutoNotify),
	}
	if cfg.WhatsApp.Enabled() {
		opts = append(opts, invoice.WithNotifier(notify.NewWhatsApp(notify.Config{
			APIURL:      cfg.WhatsApp.APIURL,
			APIToken:    cfg.WhatsApp.APIToken,
			Template:    cfg.WhatsApp.Template,
			CountryCode: cfg.WhatsApp.CountryCode,
			Timeout:     cfg.WhatsApp.Timeout,
		})))
	}
	return invoice.NewService(repository.NewInvoiceRepository(db), opts...)
}

func newRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Recovery())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 0 || cfg.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	invoices := newInvoiceService(cfg, db)
	vendorRepo := repository.NewVendorRepository(db)

	handler.RegisterRoutes(r, handler.Handlers{
		Invoices:       handler.NewInvoiceHandler(invoices, pdf.NewRenderer(cfg.Site)),
		Reports:        handler.NewReportHandler(invoices),
		Customers:      handler.NewCustomerHandler(service.NewCustomerService(repository.NewCustomerRepository(db))),
		Vendors:        handler.NewVendorHandler(service.NewVendorService(vendorRepo)),
		Products:       handler.NewProductHandler(service.NewProductService(repository.NewProductRepository(db))),
		VendorInvoices: handler.NewVendorInvoiceHandler(service.NewVendorInvoiceService(repository.NewVendorInvoiceRepository(db), vendorRepo)),
		Public:         handler.NewPublicHandler(cfg.Site),
	})
	return r
}

// serve blocks until SIGINT/SIGTERM, then drains in-flight requests.
func serve(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	log := logger.WithComponent("server")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("Server stopped")
	return nil
}
