package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hospitalcore/hospital-system/docs"
	"github.com/hospitalcore/hospital-system/internal/api/handler"
	"github.com/hospitalcore/hospital-system/internal/api/middleware"
	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// Deps carries everything the router needs wired up.
type Deps struct {
	AuthService        ports.AuthService
	UserService        ports.UserService
	AppointmentService ports.AppointmentService
	ReviewService      ports.ReviewService
	StatsService       ports.StatsService

	Mongo     *mongo.Database
	Redis     *redis.Client
	Limiter   middleware.Limiter
	MailQueue ports.MailEnqueuer

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("hospital"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	accountHandler := handler.NewAccountHandler(d.UserService)
	doctorHandler := handler.NewDoctorHandler(d.UserService)
	patientHandler := handler.NewPatientHandler(d.UserService)
	adminHandler := handler.NewAdminHandler(d.UserService)
	appointmentHandler := handler.NewAppointmentHandler(d.AppointmentService)
	reviewHandler := handler.NewReviewHandler(d.ReviewService)
	statsHandler := handler.NewStatsHandler(d.StatsService)
	mailHandler := handler.NewMailHandler(d.MailQueue)

	auth := middleware.Auth(d.JWTSigningKey, d.JWTIssuer, d.JWTAudience)
	rateLimit := middleware.RateLimit(d.Limiter)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleDoctor)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient)
	patientOnly := middleware.RBAC(domain.RolePatient)
	patientOrAdmin := middleware.RBAC(domain.RolePatient, domain.RoleAdmin)

	// --- Auth (anonymous, rate-limited per source IP) ---
	authGroup := e.Group("/api/auth", rateLimit)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/revoke", authHandler.Revoke)
	authGroup.POST("/logout", authHandler.Logout)

	// --- Self-registration for patients (anonymous, rate-limited) ---
	e.POST("/api/patients", patientHandler.Register, rateLimit)

	// --- Account ---
	account := e.Group("/api/account", auth, rateLimit)
	account.PUT("/password", accountHandler.ChangePassword, anyRole)

	users := e.Group("/api/users", auth, rateLimit, adminOnly)
	users.POST("/:id/deactivate", accountHandler.Deactivate)

	// --- Admins ---
	admins := e.Group("/api/admins", auth, rateLimit, adminOnly)
	admins.POST("", adminHandler.Register)
	admins.GET("", adminHandler.List)
	admins.GET("/:id", adminHandler.Get).Name = handler.RouteGetAdmin
	admins.PUT("/:id", adminHandler.Update)
	admins.DELETE("/:id", adminHandler.Delete)

	// --- Doctors ---
	doctors := e.Group("/api/doctors", auth, rateLimit)
	doctors.POST("", doctorHandler.Register, adminOnly)
	doctors.GET("", doctorHandler.List, anyRole)
	doctors.GET("/available", doctorHandler.ListAvailable, anyRole)
	doctors.GET("/:id", doctorHandler.Get, anyRole).Name = handler.RouteGetDoctor
	doctors.PUT("/:id", doctorHandler.Update, adminOnly)
	doctors.DELETE("/:id", doctorHandler.Delete, adminOnly)

	// --- Patients (registration is the anonymous route above) ---
	patients := e.Group("/api/patients", auth, rateLimit)
	patients.GET("", patientHandler.List, staff)
	patients.GET("/available", patientHandler.ListAvailable, staff)
	patients.GET("/:id", patientHandler.Get, anyRole).Name = handler.RouteGetPatient
	patients.PUT("/:id", patientHandler.Update, patientOrAdmin)
	patients.DELETE("/:id", patientHandler.Delete, adminOnly)

	// --- Appointments ---
	appointments := e.Group("/api/appointments", auth, rateLimit)
	appointments.GET("", appointmentHandler.List, adminOnly)
	appointments.GET("/availability", appointmentHandler.Availability, anyRole)

	appointments.POST("/admin", appointmentHandler.Create(domain.ActorAdmin), adminOnly)
	appointments.PUT("/admin/:id", appointmentHandler.Update(domain.ActorAdmin), adminOnly)

	appointments.POST("/doctor", appointmentHandler.Create(domain.ActorDoctor), middleware.RBAC(domain.RoleDoctor))
	appointments.PUT("/doctor/:id", appointmentHandler.Update(domain.ActorDoctor), middleware.RBAC(domain.RoleDoctor))
	appointments.GET("/doctor", appointmentHandler.ListMine(domain.ActorDoctor), middleware.RBAC(domain.RoleDoctor))

	appointments.POST("/patient", appointmentHandler.Create(domain.ActorPatient), patientOnly)
	appointments.PUT("/patient/:id", appointmentHandler.Update(domain.ActorPatient), patientOnly)
	appointments.GET("/patient", appointmentHandler.ListMine(domain.ActorPatient), patientOnly)

	appointments.GET("/:id", appointmentHandler.Get, anyRole).Name = handler.RouteGetAppointment
	appointments.POST("/:id/confirm", appointmentHandler.Confirm, staff)
	appointments.POST("/:id/cancel", appointmentHandler.Cancel, anyRole)
	appointments.POST("/:id/complete", appointmentHandler.Complete, staff)
	appointments.DELETE("/:id", appointmentHandler.Delete, adminOnly)

	// --- Reviews ---
	reviews := e.Group("/api/reviews", auth, rateLimit)
	reviews.POST("", reviewHandler.Create, patientOnly)
	reviews.GET("/mine", reviewHandler.ListMine, patientOnly)
	reviews.GET("/filter", reviewHandler.Filter, adminOnly)
	reviews.GET("/doctor/:id", reviewHandler.ListByDoctor, anyRole)
	reviews.GET("/doctor/:id/average", reviewHandler.AverageRating, anyRole)
	reviews.GET("/:id", reviewHandler.Get, anyRole)
	reviews.PUT("/:id", reviewHandler.Update, patientOrAdmin)
	reviews.DELETE("/:id", reviewHandler.Delete, adminOnly)

	// --- Outbound mail (admin) ---
	mailGroup := e.Group("/api/mail", auth, rateLimit, adminOnly)
	mailGroup.POST("/send", mailHandler.Send)

	// --- Stats ---
	stats := e.Group("/api/stats", auth, rateLimit, adminOnly)
	stats.GET("/appointments/by-status", statsHandler.AppointmentsByStatus)
	stats.GET("/appointments/by-doctor", statsHandler.AppointmentsByDoctor)
	stats.GET("/doctors/by-rating", statsHandler.DoctorsByRating)
	stats.GET("/patients/by-age-group", statsHandler.PatientsByAgeGroup)

	// --- Health probes, metrics, docs ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
