package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"property-backoffice/config"
	"property-backoffice/internal/auth"
	"property-backoffice/internal/events"
	"property-backoffice/internal/mw"
	"property-backoffice/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, pub events.Publisher, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(logger))

	sessions := auth.NewSessions(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	handler := NewHandler(s, pub, sessions, cfg, logger)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	loginLimiter := mw.RateLimiter(rate.Limit(cfg.Server.LoginRatePerMin/60), max(1, int(cfg.Server.LoginRatePerMin)))

	// Cleanup runs at twice the TTL
	cacheStore := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.Server.CacheTTL)

	r.GET("/healthz", handler.Healthz)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", loginLimiter, handler.Login)
		api.POST("/logout", handler.Logout)
	}

	gated := api.Group("")
	gated.Use(mw.RequireSession(sessions, cfg.Auth.CookieName), caching)
	{
		gated.GET("/dashboard", handler.GetDashboard)

		gated.GET("/apartments", handler.ListApartments)
		gated.POST("/apartments", handler.CreateApartment)
		gated.GET("/apartments/:id", handler.GetApartment)
		gated.PUT("/apartments/:id", handler.UpdateApartment)
		gated.DELETE("/apartments/:id", handler.DeleteApartment)

		gated.POST("/apartments/:id/rooms", handler.CreateRoom)
		gated.POST("/apartments/:id/rooms/bulk", handler.BulkCreateRooms)
		gated.PUT("/rooms/:room_id/status", handler.UpdateRoomStatus)
		gated.PUT("/rooms/:room_id/rent", handler.UpdateRoomRent)
		gated.DELETE("/rooms/:room_id", handler.DeleteRoom)

		// Billing
		gated.GET("/apartments/:id/utilities", handler.GetUtilities)
		gated.POST("/apartments/:id/readings", handler.SubmitReadings)
		gated.GET("/rooms/:room_id/previous-reading", handler.GetPreviousReading)
		gated.PUT("/readings/:reading_id/payment", handler.UpdatePayment)

		gated.GET("/apartments/:id/invoices", handler.ListInvoices)
		gated.GET("/apartments/:id/invoices.xlsx", handler.InvoicesXLSX)
		gated.GET("/readings/:reading_id/invoice", handler.GetInvoice)
		gated.GET("/readings/:reading_id/invoice.xlsx", handler.InvoiceXLSX)

		// Finance
		gated.GET("/apartments/:id/finance", handler.GetFinance)
		gated.GET("/apartments/:id/finance.xlsx", handler.FinanceXLSX)
		gated.PUT("/apartments/:id/mortgage", handler.PutMortgage)
		gated.PUT("/apartments/:id/expenses", handler.PutExpense)
		gated.DELETE("/expenses/:expense_id", handler.DeleteExpense)
		gated.POST("/apartments/:id/maintenance", handler.CreateMaintenance)
		gated.PUT("/maintenance/:ticket_id/status", handler.UpdateMaintenanceStatus)
		gated.DELETE("/maintenance/:ticket_id", handler.DeleteMaintenance)
	}

	return r
}
