package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/storyquiz-api/internal/config"
	"github.com/yourusername/storyquiz-api/internal/handler"
	"github.com/yourusername/storyquiz-api/internal/middleware"
	pgRepo "github.com/yourusername/storyquiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/storyquiz-api/internal/repository/redis"
	"github.com/yourusername/storyquiz-api/internal/service"
	"github.com/yourusername/storyquiz-api/internal/ws"
	"github.com/yourusername/storyquiz-api/pkg/auth"
	"github.com/yourusername/storyquiz-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	storyRepo := pgRepo.NewStoryRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	codeRepo := pgRepo.NewCodeRepo(db)
	viewRepo := pgRepo.NewViewRepo(db)
	submissionRepo := pgRepo.NewSubmissionRepo(db)
	userRepo := pgRepo.NewUserRepo(db)
	configRepo := pgRepo.NewSystemConfigRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Token services
	studentTokens, err := auth.NewStudentTokenService(cfg.Auth.StudentCookieSecret, cfg.Auth.StudentCookieDays, isProduction)
	if err != nil {
		log.Printf("Failed to initialize student token service: %v", err)
		os.Exit(1)
	}
	staffTokens, err := auth.NewStaffTokenService(cfg.Auth.StaffTokenSecret, cfg.Auth.StaffTokenExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize staff token service: %v", err)
		os.Exit(1)
	}

	// Email
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Dashboard event hub
	hub := ws.NewHub()
	go hub.Run()

	// Services
	codeService := service.NewCodeService(
		codeRepo, storyRepo, cacheRepo,
		cfg.Codes.Length,
		time.Duration(cfg.Codes.CacheTTLSeconds)*time.Second,
	)
	storyService := service.NewStoryService(storyRepo, categoryRepo, configRepo, codeService)
	categoryService := service.NewCategoryService(categoryRepo, storyRepo)
	studentService := service.NewStudentService(codeService, storyRepo, viewRepo, submissionRepo, db, hub)
	reportService := service.NewReportService(codeService, storyRepo, codeRepo, viewRepo, submissionRepo)
	userService := service.NewUserService(userRepo, emailService, cfg.Email.InviteBaseURL)

	// Handlers
	studentHandler := handler.NewStudentHandler(studentTokens, codeService, studentService)
	storyHandler := handler.NewStoryHandler(storyService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	codeHandler := handler.NewCodeHandler(codeService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)
	wsHandler := handler.NewWSHandler(hub)

	// Middleware
	studentMW := middleware.NewStudentMiddleware(studentTokens, studentService)
	staffMW := middleware.NewStaffMiddleware(staffTokens, userService)

	router := gin.Default()

	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		// Student surface. Consent is required everywhere; identity only
		// past the entry form.
		student := api.Group("/student")
		{
			student.POST("/consent", studentHandler.GiveConsent)

			consented := student.Group("")
			consented.Use(studentMW.RequireConsent())
			{
				consented.POST("/enter", studentHandler.Enter)

				identified := consented.Group("")
				identified.Use(studentMW.RequireIdentity())
				{
					identified.GET("/story/:code", studentHandler.GetStory)

					gated := identified.Group("")
					gated.Use(studentMW.RequireViewed())
					{
						gated.POST("/story/:code/submit", studentHandler.SubmitQuiz)
						gated.GET("/story/:code/results", studentHandler.GetResults)
					}
				}
			}
		}

		// Invite acceptance is public: the recipient has no token yet.
		api.POST("/user/accept-invite", userHandler.AcceptInvite)

		// Staff surface.
		admin := api.Group("/admin")
		admin.Use(staffMW.RequireStaff())
		{
			admin.GET("/me", userHandler.Me)
			admin.GET("/dashboard", reportHandler.GetDashboardStats)
			admin.GET("/ws", wsHandler.HandleConnection)

			admin.GET("/quiz-constraints", storyHandler.GetQuizConstraints)
			admin.PUT("/quiz-constraints", storyHandler.UpdateQuizConstraints)

			stories := admin.Group("/stories")
			{
				stories.GET("", storyHandler.ListStories)
				stories.POST("", storyHandler.CreateStory)

				storyWithID := stories.Group("/:id")
				storyWithID.Use(middleware.ExtractUintParam("id", "storyID"))
				{
					storyWithID.GET("", storyHandler.GetStory)
					storyWithID.PUT("", storyHandler.UpdateStory)
					storyWithID.DELETE("", storyHandler.DeleteStory)
					storyWithID.GET("/codes", codeHandler.ListCodesByStory)
				}
			}

			categories := admin.Group("/categories")
			{
				categories.GET("", categoryHandler.ListCategories)
				categories.POST("", categoryHandler.CreateCategory)

				categoryWithID := categories.Group("/:id")
				categoryWithID.Use(middleware.ExtractUintParam("id", "categoryID"))
				{
					categoryWithID.PUT("", categoryHandler.UpdateCategory)
					categoryWithID.DELETE("", categoryHandler.DeleteCategory)
				}
			}

			codes := admin.Group("/codes")
			{
				codes.POST("", codeHandler.GenerateCode)

				codeWithID := codes.Group("/:id")
				codeWithID.Use(middleware.ExtractUintParam("id", "codeID"))
				{
					codeWithID.PATCH("/status", codeHandler.SetCodeStatus)
					codeWithID.DELETE("", codeHandler.DeleteCode)
					codeWithID.GET("/log", reportHandler.GetStudentLog)
					codeWithID.GET("/results", reportHandler.GetCodeResults)
					codeWithID.GET("/results/export", reportHandler.ExportCodeResults)
				}
			}

			submissions := admin.Group("/submissions/:id")
			submissions.Use(middleware.ExtractUintParam("id", "submissionID"))
			{
				submissions.GET("", reportHandler.GetSubmissionDetail)
			}

			users := admin.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.POST("/invite", userHandler.Invite)
			}
		}

		// Status management keeps its own path for compatibility with the
		// admin frontend.
		api.POST("/user/update-status", staffMW.RequireStaff(), userHandler.UpdateStatus)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	hub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
