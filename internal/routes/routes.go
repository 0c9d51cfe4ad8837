package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/practice-scheduler/internal/audit"
	"github.com/BruksfildServices01/practice-scheduler/internal/config"
	"github.com/BruksfildServices01/practice-scheduler/internal/handlers"
	"github.com/BruksfildServices01/practice-scheduler/internal/infra/imaging"
	infraRepo "github.com/BruksfildServices01/practice-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/practice-scheduler/internal/middleware"
	ucClient "github.com/BruksfildServices01/practice-scheduler/internal/usecase/client"
	ucPayment "github.com/BruksfildServices01/practice-scheduler/internal/usecase/payment"
)

// Deps carries the singletons built in main. Optional integrations are nil
// interfaces when not configured.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Logger    *slog.Logger
	Audit     *audit.Dispatcher
	Locker    middleware.Locker
	Checkout  ucPayment.CheckoutProvider
	Storage   ucClient.ObjectStore
	Messaging handlers.Disconnector
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	paymentRepo := infraRepo.NewPaymentGormRepository(d.DB)
	clientRepo := infraRepo.NewClientGormRepository(d.DB)

	uploadAvatarUC := ucClient.NewUploadAvatar(clientRepo, d.Storage, imaging.Avatar, d.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Audit)
	meHandler := handlers.NewMeHandler(d.DB, d.Audit)

	clientHandler := handlers.NewClientHandler(d.DB, d.Audit, uploadAvatarUC)
	noteHandler := handlers.NewNoteHandler(d.DB, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, d.Audit)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, d.Checkout, d.Audit)

	messagingHandler := handlers.NewMessagingHandler(d.Messaging, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	feedHandler := handlers.NewFeedHandler(d.DB, appointmentRepo)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PÚBLICO
		// ------------------------------
		api.GET("/feeds/:token", feedHandler.Calendar)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		secured.Use(middleware.SubmitGuard(d.Locker, d.Config.SubmitLockTTL))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.POST("/me/feed-token", meHandler.RotateFeedToken)

			// ------------------------------
			// CLIENTS / NOTES
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.GET("/me/clients/:id", clientHandler.Get)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)
			secured.PUT("/me/clients/:id/avatar", clientHandler.UploadAvatar)

			secured.GET("/me/clients/:id/notes", noteHandler.List)
			secured.POST("/me/clients/:id/notes", noteHandler.Create)
			secured.PATCH("/me/notes/:id", noteHandler.Update)
			secured.DELETE("/me/notes/:id", noteHandler.Delete)

			// ------------------------------
			// CATALOG / AGENDA CONFIG
			// ------------------------------
			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/availability", appointmentHandler.Availability)
			secured.POST("/me/appointments/conflicts", appointmentHandler.CheckConflict)
			secured.GET("/me/appointments/series/:group_id", appointmentHandler.GetSeries)
			secured.POST("/me/appointments/series/:group_id/conflicts", appointmentHandler.PreviewSeriesConflicts)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.ChangeStatus)

			// ------------------------------
			// FINANCEIRO
			// ------------------------------
			secured.GET("/me/payments", paymentHandler.List)
			secured.POST("/me/payments", paymentHandler.Create)
			secured.GET("/me/payments/summary", paymentHandler.Summary)
			secured.PATCH("/me/payments/:id", paymentHandler.Update)
			secured.DELETE("/me/payments/:id", paymentHandler.Delete)
			secured.PATCH("/me/payments/:id/paid", paymentHandler.MarkPaid)
			secured.POST("/me/payments/:id/checkout", paymentHandler.Checkout)
			secured.GET("/me/reports/finance.xlsx", paymentHandler.ExportXLSX)

			// ------------------------------
			// INTEGRAÇÕES / AUDITORIA
			// ------------------------------
			secured.POST("/me/messaging/disconnect", messagingHandler.Disconnect)
			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
