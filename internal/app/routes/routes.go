package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/controllers"
	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	companyController *controllers.CompanyController,
	applicationController *controllers.ApplicationController,
	importController *controllers.ImportController,
	exportController *controllers.ExportController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/verify-email", authController.VerifyEmail)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	staffOnly := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleCoordinator)
	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	authenticated.GET("/auth/me", authController.GetProfile)

	// Student records. Reads are open to all roles; writes are staff-only
	// except the resume link, which students maintain themselves.
	students := authenticated.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/:id", studentController.GetStudent)
		students.PUT("/:id/resume-link", studentController.UpdateResumeLink)
		students.GET("/:id/backlog-history", studentController.GetBacklogHistory)

		studentsStaff := students.Group("")
		studentsStaff.Use(staffOnly)
		{
			studentsStaff.POST("", studentController.CreateStudent)
			studentsStaff.PUT("/:id", studentController.UpdateStudent)
			studentsStaff.DELETE("/:id", studentController.DeleteStudent)
			studentsStaff.PUT("/:id/eligibility-status", studentController.UpdateEligibility)
			studentsStaff.PUT("/:id/backlog", studentController.UpdateBacklog)
		}
	}

	// Placement drives
	companies := authenticated.Group("/companies")
	{
		companies.GET("", companyController.ListCompanies)
		companies.GET("/:id", companyController.GetCompany)

		companiesStaff := companies.Group("")
		companiesStaff.Use(staffOnly)
		{
			companiesStaff.POST("", companyController.CreateCompany)
			companiesStaff.PUT("/:id", companyController.UpdateCompany)
			companiesStaff.DELETE("/:id", companyController.DeleteCompany)
		}
	}

	// Applications. Students apply and see their own; staff drive the pipeline.
	applications := authenticated.Group("/applications")
	{
		applications.POST("", applicationController.CreateApplication)
		applications.GET("", applicationController.ListApplications)
		applications.GET("/:id", applicationController.GetApplication)
		applications.PUT("/:id/status", staffOnly, applicationController.UpdateStatus)
	}

	// Grade sheet imports and applicant exports are staff-only.
	authenticated.POST("/imports/sgpa", staffOnly, importController.ImportSGPA)

	exports := authenticated.Group("/exports", staffOnly)
	{
		exports.GET("/companies", exportController.ExportAll)
		exports.GET("/companies/:id", exportController.ExportCompany)
	}

	authenticated.GET("/dashboard", staffOnly, adminController.GetDashboard)

	// Account management and the mail delivery log.
	admin := authenticated.Group("/admin", adminOnly)
	{
		admin.GET("/users", adminController.ListUsers)
		admin.POST("/users", adminController.CreateUser)
		admin.DELETE("/users/:id", adminController.DeleteUser)
		admin.GET("/notifications", adminController.ListNotifications)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
