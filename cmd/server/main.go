package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"paycontrol/internal/handlers"
	"paycontrol/internal/middleware"
	"paycontrol/internal/provider"
	"paycontrol/internal/services"
)

// demoUser is the fixture owner of the in-memory provider. Used when running
// without Firebase so the API is fully exercisable in development.
const demoUser = "demo-user"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Pick the data provider
	store, err := buildProvider()
	if err != nil {
		log.Fatalf("Failed to initialize data provider: %v", err)
	}

	// Optional Redis cache for dashboard aggregates
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, dashboard caching disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Optional S3-compatible evidence storage
	evidence, err := buildEvidenceStore()
	if err != nil {
		log.Printf("Warning: evidence storage unavailable: %v", err)
		evidence = nil
	}

	// Services
	debtService := services.NewDebtService(store, cache)
	personService := services.NewPersonService(store)
	profileService := services.NewProfileService(store)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authClient)
	debtHandler := handlers.NewDebtHandler(debtService, evidence)
	personHandler := handlers.NewPersonHandler(personService, profileService)
	dashboardHandler := handlers.NewDashboardHandler(debtService, cache)
	exportHandler := handlers.NewExportHandler(debtService)

	// Public routes
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)

	// Protected routes
	api := e.Group("/api")
	if authClient != nil {
		api.Use(middleware.RequireAuth(authClient))
	} else {
		log.Printf("Warning: running without auth, all requests act as %q", demoUser)
		api.Use(demoAuth)
	}

	api.GET("/profile", personHandler.GetProfile)
	api.PUT("/profile", personHandler.UpdateProfile)

	api.GET("/persons", personHandler.ListPersons)
	api.POST("/persons", personHandler.CreatePerson)
	api.PUT("/persons/:id", personHandler.UpdatePerson)

	api.GET("/debts", debtHandler.ListDebts)
	api.POST("/debts", debtHandler.CreateDebt)
	api.GET("/debts/:id", debtHandler.GetDebt)
	api.PUT("/debts/:id", debtHandler.UpdateDebt)
	api.POST("/debts/:id/archive", debtHandler.ArchiveDebt)
	api.POST("/debts/:id/reactivate", debtHandler.ReactivateDebt)
	api.POST("/debts/:id/payments", debtHandler.RecordPayment)
	api.DELETE("/debts/:id/payments/:paymentId", debtHandler.DeletePayment)
	api.POST("/debts/:id/evidence", debtHandler.UploadEvidence)
	api.GET("/evidence", debtHandler.EvidenceURL)

	api.GET("/dashboard/summary", dashboardHandler.Summary)
	api.GET("/dashboard/top", dashboardHandler.TopCounterparties)
	api.GET("/dashboard/peers", dashboardHandler.TopPeers)
	api.GET("/dashboard/recovered", dashboardHandler.MonthlyRecovered)
	api.GET("/dashboard/consolidated", dashboardHandler.Consolidated)

	api.GET("/export/history.xlsx", exportHandler.HistoryXLSX)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

// buildProvider selects the storage backend from DATA_PROVIDER. The in-memory
// one ships a small demo fixture; postgres requires DATABASE_URL and runs the
// schema migration on boot.
func buildProvider() (provider.Provider, error) {
	switch os.Getenv("DATA_PROVIDER") {
	case "", "memory":
		mem := provider.NewMemory()
		if err := mem.Seed(context.Background(), demoUser); err != nil {
			return nil, err
		}
		log.Println("Using in-memory provider with demo data")
		return mem, nil
	case "postgres":
		db, err := services.InitDB(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, err
		}
		if err := services.AutoMigrate(db); err != nil {
			return nil, err
		}
		return provider.NewPostgres(db), nil
	default:
		log.Fatalf("Unknown DATA_PROVIDER %q (want memory or postgres)", os.Getenv("DATA_PROVIDER"))
		return nil, nil
	}
}

// buildEvidenceStore wires the S3-compatible bucket when AWS_ENDPOINT is set.
func buildEvidenceStore() (*services.EvidenceStore, error) {
	endpoint := os.Getenv("AWS_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}
	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		bucket = "paycontrol-evidence"
	}
	store, err := services.NewEvidenceStore(services.EvidenceConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Region:    os.Getenv("AWS_REGION"),
		Bucket:    bucket,
		UseSSL:    os.Getenv("AWS_USE_SSL") != "false",
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// demoAuth stands in for session verification in local development.
func demoAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(middleware.ContextUserUID, demoUser)
		c.Set(middleware.ContextUserEmail, "demo@paycontrol.local")
		return next(c)
	}
}
