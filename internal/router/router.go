package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"quotecrm/internal/config"
	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/middleware"
	"quotecrm/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Client     *handler.ClientHandler
	Lead       *handler.LeadHandler
	Estimation *handler.EstimationHandler
	Invoice    *handler.InvoiceHandler
	Document   *handler.DocumentHandler
	Report     *handler.ReportHandler
	Stats      *handler.StatsHandler
	Settings   *handler.SettingsHandler
	Health     *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	corsCfg config.CORSConfig,
	authSvc service.AuthService,
	caps service.CapabilityService,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS(corsCfg))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	can := func(required domain.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(caps, required)
	}

	protected.GET("/auth/me", h.Auth.Me)

	users := protected.Group("/users", can(domain.CapUserManage))
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", h.User.Delete)
	users.PUT("/:id/capabilities", h.User.SetCapabilities)

	clients := protected.Group("/clients")
	clients.GET("", can(domain.CapClientView), h.Client.List)
	clients.POST("", can(domain.CapClientManage), h.Client.Create)
	clients.GET("/:id", can(domain.CapClientView), h.Client.GetByID)
	clients.PUT("/:id", can(domain.CapClientManage), h.Client.Update)
	clients.DELETE("/:id", can(domain.CapClientManage), h.Client.Delete)
	clients.GET("/:id/pending-leads", can(domain.CapLeadView), h.Client.PendingLeads)

	leads := protected.Group("/leads")
	leads.GET("", can(domain.CapLeadView), h.Lead.List)
	leads.POST("", can(domain.CapLeadManage), h.Lead.Create)
	leads.GET("/:id", can(domain.CapLeadView), h.Lead.GetByID)
	leads.PUT("/:id", can(domain.CapLeadManage), h.Lead.Update)

	estimations := protected.Group("/estimations")
	estimations.GET("", can(domain.CapEstimationView), h.Estimation.List)
	estimations.POST("", can(domain.CapEstimationManage), h.Estimation.Create)
	estimations.GET("/:id", can(domain.CapEstimationView), h.Estimation.GetByID)
	estimations.PUT("/:id", can(domain.CapEstimationManage), h.Estimation.Update)
	estimations.POST("/:id/approve", can(domain.CapEstimationApprove), h.Estimation.Approve)
	estimations.POST("/:id/reject", can(domain.CapEstimationApprove), h.Estimation.Reject)
	estimations.POST("/:id/lost", can(domain.CapEstimationManage), h.Estimation.MarkLost)
	estimations.POST("/:id/follow-up", can(domain.CapEstimationManage), h.Estimation.FollowUp)
	estimations.GET("/:id/pdf", can(domain.CapEstimationView), h.Document.QuotationPDF)
	estimations.GET("/:id/po-attachment", can(domain.CapEstimationView), h.Document.POAttachment)
	estimations.POST("/:id/invoice", can(domain.CapInvoiceManage), h.Estimation.GenerateInvoice)

	invoices := protected.Group("/invoices")
	invoices.GET("", can(domain.CapInvoiceView), h.Invoice.List)
	invoices.GET("/:id", can(domain.CapInvoiceView), h.Invoice.GetByID)
	invoices.POST("/:id/approve", can(domain.CapInvoiceManage), h.Invoice.Approve)
	invoices.POST("/:id/reconcile", can(domain.CapInvoiceManage), h.Invoice.Reconcile)
	invoices.POST("/:id/email", can(domain.CapInvoiceManage), h.Document.EmailInvoice)
	invoices.GET("/:id/pdf", can(domain.CapInvoiceView), h.Document.InvoicePDF)
	invoices.GET("/:id/payments", can(domain.CapInvoiceView), h.Invoice.ListPayments)
	invoices.POST("/:id/payments", can(domain.CapPaymentRecord), h.Invoice.RecordPayment)

	protected.POST("/payments/:id/confirm", can(domain.CapPaymentRecord), h.Invoice.ConfirmPayment)

	reports := protected.Group("/reports", can(domain.CapReportView))
	reports.GET("", h.Report.LeadReport)
	reports.GET("/export/csv", h.Report.ExportCSV)
	reports.GET("/export/excel", h.Report.ExportExcel)
	reports.GET("/export/pdf", h.Report.ExportPDF)

	protected.GET("/dashboard", can(domain.CapReportView), h.Stats.Dashboard)

	settings := protected.Group("/settings", can(domain.CapSettingsManage))
	settings.GET("", h.Settings.Get)
	settings.PUT("/tax", h.Settings.UpdateTax)
	settings.PUT("/numbering/:kind", h.Settings.UpdateNumbering)

	registerAPIDoc(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	return r
}
