package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/config"
	"medbook-server/internal/handlers"
	"medbook-server/internal/middleware"
	"medbook-server/internal/models"
	"medbook-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, scheduler *scheduling.Scheduler, log zerolog.Logger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, log)
	userHandler := handlers.NewUserHandler(db, log)
	doctorHandler := handlers.NewDoctorHandler(db, log)
	patientHandler := handlers.NewPatientHandler(db, log)
	appointmentHandler := handlers.NewAppointmentHandler(db, scheduler, log)
	prescriptionHandler := handlers.NewPrescriptionHandler(db, log)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db, log)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		private.GET("/auth/profile", authHandler.GetProfile)

		// User management routes (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
		}

		// Doctor profile routes
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.PUT("/me", middleware.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.UpsertOwnProfile)
		}

		// Patient profile routes
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.PUT("/me", middleware.RoleAuthMiddleware(models.RolePatient), patientHandler.UpsertOwnProfile)
			patientRoutes.GET("/mine", middleware.RoleAuthMiddleware(models.RoleDoctor), patientHandler.GetDoctorPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID) // scoping inside handler
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("/available-slots", appointmentHandler.GetAvailableSlots)

			// Only patients book; the patient profile comes from the token
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)

			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)       // scoping inside handler
			appointmentRoutes.PUT("/:id", appointmentHandler.RescheduleAppointment)    // scoping inside handler
			appointmentRoutes.PUT("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PUT("/:id/cancel", appointmentHandler.CancelAppointment)
		}

		// Prescription routes
		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), prescriptionHandler.CreatePrescription)
			prescriptionRoutes.GET("", prescriptionHandler.GetPrescriptionsForUser)
			prescriptionRoutes.GET("/:id", prescriptionHandler.GetPrescriptionByID)
			prescriptionRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), prescriptionHandler.UpdatePrescription)
		}

		// Medical record routes
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CreateMedicalRecord)
			medicalRecordRoutes.GET("/patient/:patientId", medicalRecordHandler.GetMedicalRecordsForPatient)
			medicalRecordRoutes.GET("/:id", medicalRecordHandler.GetMedicalRecordByID)
			medicalRecordRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalRecordHandler.UpdateMedicalRecord)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
