package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/flowpost/flowpost/configs"
	"github.com/flowpost/flowpost/internal/api/handlers"
	"github.com/flowpost/flowpost/internal/api/middleware"
	job "github.com/flowpost/flowpost/internal/jobs"
	"github.com/flowpost/flowpost/internal/mailer"
	"github.com/flowpost/flowpost/internal/oauthflow"
	"github.com/flowpost/flowpost/internal/platforms"
	"github.com/flowpost/flowpost/internal/queue"
	"github.com/flowpost/flowpost/internal/repository"
	"github.com/flowpost/flowpost/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	teamMemberRepo := repository.NewTeamMemberRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)

	registry := platforms.NewRegistry(*cfg)
	flowStore := oauthflow.NewRedisStore(rdb)
	emailer := mailer.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	connectService := service.NewConnectService(*cfg, registry, flowStore, connectionRepo)
	connectionService := service.NewConnectionService(connectionRepo)
	teamService := service.NewTeamService(*cfg, teamMemberRepo, userRepo, client)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	integrationService := service.NewIntegrationService(integrationRepo)
	billingService := service.NewBillingService(*cfg, userRepo, subscriptionRepo)
	generateService := service.NewGenerateService(*cfg, client)
	usageService := service.NewUsageService(usageRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	connect := handlers.NewConnectHandler(*cfg, connectService)
	app.Get("/connect/:platform", authMiddleware.AuthMiddleware(), connect.Initiate)
	app.Get("/connect/:platform/callback", connect.Callback)

	billing := handlers.NewBillingHandler(billingService)
	app.Post("/webhooks/billing", billing.Webhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(*cfg, userService)
	api.Get("/user/info", user.UserInfo)
	api.Post("/user/remove", user.DeleteUser)
	api.Post("/logout", user.Logout)

	connections := handlers.NewConnectionHandler(connectionService)
	api.Get("/connections", connections.ListConnections)
	api.Post("/connections/remove", connections.DeleteConnection)

	team := handlers.NewTeamHandler(teamService)
	api.Get("/team", team.ListMembers)
	api.Post("/team/invite", team.InviteMember)
	api.Post("/team/update", team.UpdateMember)
	api.Post("/team/remove", team.RemoveMember)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveKey)

	notifications := handlers.NewNotificationHandler(notificationService)
	api.Get("/notifications", notifications.GetSettings)
	api.Post("/notifications/update", notifications.UpdateSettings)

	integrations := handlers.NewIntegrationHandler(integrationService)
	api.Get("/integrations", integrations.ListIntegrations)
	api.Post("/integrations/new", integrations.CreateIntegration)
	api.Post("/integrations/remove", integrations.RemoveIntegration)

	api.Post("/billing/checkout", billing.CreateCheckout)
	api.Post("/billing/portal", billing.CreatePortal)
	api.Get("/billing/subscription", billing.GetSubscription)

	generate := handlers.NewGenerateHandler(generateService, usageService)
	api.Post("/generate", generate.Generate)
	api.Post("/generate/stream", generate.GenerateStream)
	api.Get("/usage", generate.ListUsage)

	// cron jobs
	sweepJob := job.NewSubscriptionSweepJob(subscriptionRepo)

	//queue
	queueW := queue.NewQueue(usageRepo, emailer, cfg.FrontendURL)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", sweepJob.Sweep)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeInviteEmail, queueW.HandleInviteEmailTask)
		mux.HandleFunc(queue.TaskTypeUsageRecord, queueW.HandleUsageRecordTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
