package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/collegekit/feedback-api/config"
	"github.com/collegekit/feedback-api/database"
	_ "github.com/collegekit/feedback-api/docs" // Swagger docs - auto-generated
	adminctrl "github.com/collegekit/feedback-api/internal/controller/admin"
	studentctrl "github.com/collegekit/feedback-api/internal/controller/student"
	"github.com/collegekit/feedback-api/internal/logger"
	"github.com/collegekit/feedback-api/internal/mailer"
	"github.com/collegekit/feedback-api/internal/middleware"
	"github.com/collegekit/feedback-api/internal/model"
	"github.com/collegekit/feedback-api/internal/repository"
	"github.com/collegekit/feedback-api/internal/service"
)

// @title College Feedback API
// @version 1.0
// @description Multi-tenant student feedback collection: token-gated anonymous-by-construction submissions with denormalized reporting snapshots.
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			mailer.NewMailer,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewFormRepository,
			repository.NewQuestionRepository,
			repository.NewGrantRepository,
			repository.NewResponseRepository,
			repository.NewSnapshotRepository,
			repository.NewStudentRepository,
			repository.NewAcademicRepository,
			repository.NewCategoryRepository,
			repository.NewAdminUserRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewResponseValueCodec,
			service.NewSubmissionService,
			service.NewFormService,
			service.NewGrantService,
			service.NewReportService,
			service.NewCategoryService,
			service.NewAuthService,
		),

		// API Controllers Layer
		fx.Provide(
			studentctrl.NewResponseController,
			adminctrl.NewAuthController,
			adminctrl.NewFormController,
			adminctrl.NewGrantController,
			adminctrl.NewReportController,
			adminctrl.NewCategoryController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedBootstrapAdmin),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Wait for a shutdown signal
	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Route requests through Zerolog so access logs share the app log format.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return "" // Returning empty string to avoid double logging if Gin's default logger is also active
	}))
	r.Use(gin.Recovery())

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	responseCtrl *studentctrl.ResponseController,
	authCtrl *adminctrl.AuthController,
	formCtrl *adminctrl.FormController,
	grantCtrl *adminctrl.GrantController,
	reportCtrl *adminctrl.ReportController,
	categoryCtrl *adminctrl.CategoryController,
) {
	// Student routes: no login, the one-time token in the path is the whole
	// credential.
	studentGroup := router.Group("/student-responses")
	{
		studentGroup.POST("/submit/:token", responseCtrl.Submit)
		studentGroup.GET("/check-submission/:token", responseCtrl.CheckSubmission)
	}

	router.POST("/auth/login", authCtrl.Login)

	// Admin routes: JWT required, role checked per group. Principals get the
	// read-only reporting surface; mutations stay admin-only.
	adminGroup := router.Group("", middleware.RequireAdmin(cfg.Auth.JWTSecret))
	{
		manage := adminGroup.Group("", middleware.RequireRole(model.RoleAdmin))
		{
			forms := manage.Group("/feedback-forms")
			forms.POST("", formCtrl.CreateForm)
			forms.PUT("/:id", formCtrl.UpdateForm)
			forms.DELETE("/:id", formCtrl.DeleteForm)
			forms.POST("/:id/activate", formCtrl.ActivateForm)
			forms.POST("/:id/close", formCtrl.CloseForm)
			forms.POST("/:id/questions", formCtrl.AddQuestion)
			forms.PUT("/:id/questions/:question_id", formCtrl.UpdateQuestion)
			forms.DELETE("/:id/questions/:question_id", formCtrl.DeleteQuestion)
			forms.POST("/:id/distribute", grantCtrl.Distribute)

			manage.POST("/access-grants/override", grantCtrl.AddOverride)

			categories := manage.Group("/question-categories")
			categories.POST("", categoryCtrl.CreateCategory)
			categories.PUT("/:id", categoryCtrl.UpdateCategory)
			categories.DELETE("/:id", categoryCtrl.DeleteCategory)
		}

		view := adminGroup.Group("", middleware.RequireRole(model.RoleAdmin, model.RolePrincipal))
		{
			forms := view.Group("/feedback-forms")
			forms.GET("", formCtrl.ListForms)
			forms.GET("/:id", formCtrl.GetForm)
			forms.GET("/:id/grants", grantCtrl.ListGrants)
			forms.GET("/:id/responses", reportCtrl.FormResponses)
			forms.GET("/:id/snapshots", reportCtrl.FormSnapshots)
			forms.GET("/:id/summary", reportCtrl.FormSummary)

			categories := view.Group("/question-categories")
			categories.GET("", categoryCtrl.ListCategories)
			categories.GET("/:id", categoryCtrl.GetCategory)
		}
	}

	// HTTP Server Setup and Lifecycle
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("College Feedback API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		// Academic structure
		&model.College{},
		&model.Department{},
		&model.AcademicYear{},
		&model.Semester{},
		&model.Division{},
		&model.Subject{},
		&model.Faculty{},
		&model.SubjectAllocation{},
		&model.Student{},
		&model.OverrideStudent{},
		// Feedback domain
		&model.QuestionCategory{},
		&model.FeedbackForm{},
		&model.FeedbackQuestion{},
		&model.AccessGrant{},
		&model.StudentResponse{},
		&model.FeedbackSnapshot{},
		// Admin
		&model.AdminUser{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedBootstrapAdmin creates the configured first admin account so a fresh
// deployment can log in. Runs after migration; no-op when unset or existing.
func SeedBootstrapAdmin(authSvc service.AuthService) {
	authSvc.EnsureBootstrapAdmin(context.Background())
}
