package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smspanel/internal/auth"
	"smspanel/internal/handler"
	"smspanel/internal/middleware"
	"smspanel/internal/model"
	"smspanel/pkg/config"
	"smspanel/pkg/database"
	"smspanel/pkg/jwtutil"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting SMS panel service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.Migrate(db,
		&model.Tenant{},
		&model.User{},
		&model.Contact{},
		&model.Group{},
		&model.ContactGroup{},
		&model.Blacklist{},
		&model.SmsTitle{},
		&model.SmsMessage{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	if cfg.Server.Env != config.EnvProduction && cfg.Server.SeedDemoData {
		if err := seedDemoData(db); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
		log.Info("Demo data seeded")
	}

	// Initialize JWT utility
	jwt := jwtutil.New(&cfg.JWT)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Handlers
	authHandler := handler.NewAuthHandler(
		auth.NewTenantResolver(db),
		auth.NewCredentialVerifier(db),
		jwt,
	)
	contacts := handler.NewContactHandler(db)
	groups := handler.NewGroupHandler(db)
	blacklist := handler.NewBlacklistHandler(db)
	titles := handler.NewTitleHandler(db)
	sms := handler.NewSmsHandler(db)
	tenants := handler.NewTenantHandler(db)

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	e.POST("/auth/login", authHandler.Login)

	// API routes - all require a valid token
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwt))

	c := api.Group("/contacts")
	c.GET("", contacts.List)
	c.POST("", contacts.Create)
	c.PATCH("/:id", contacts.Update)
	c.DELETE("/:id", contacts.Delete)
	c.POST("/import", contacts.Import)

	g := api.Group("/groups")
	g.GET("", groups.List)
	g.POST("", groups.Create)
	g.PATCH("/:id", groups.Update)
	g.DELETE("/:id", groups.Delete)

	b := api.Group("/blacklist")
	b.GET("", blacklist.List)
	b.POST("", blacklist.Create)
	b.DELETE("/:id", blacklist.Delete)
	b.POST("/import", blacklist.Import)

	t := api.Group("/titles")
	t.GET("", titles.List)
	t.POST("", titles.Create)
	t.DELETE("/:id", titles.Delete)

	s := api.Group("/sms")
	s.POST("", sms.Send)
	s.GET("", sms.Report)

	tn := api.Group("/tenants")
	tn.POST("", tenants.Create)
	tn.GET("", tenants.List)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

// seedDemoData provisions a host panel on localhost and one customer
// tenant on test.localhost for local development.
func seedDemoData(db *gorm.DB) error {
	seed := []struct {
		tenant model.Tenant
		user   model.User
	}{
		{
			tenant: model.Tenant{
				Name:       "Host Panel",
				Domain:     "localhost",
				Title:      "SMS Panel",
				TenantType: model.TenantTypeHost,
				Credit:     100000,
				IsActive:   true,
			},
			user: model.User{
				FirstName: "Admin",
				LastName:  "User",
				Username:  "admin",
				Email:     "admin@localhost",
				Password:  "admin123",
				IsActive:  true,
			},
		},
		{
			tenant: model.Tenant{
				Name:       "Test Customer",
				Domain:     "test.localhost",
				Title:      "Test Customer Panel",
				TenantType: model.TenantTypeCustomer,
				Credit:     1000,
				IsActive:   true,
			},
			user: model.User{
				FirstName: "Test",
				LastName:  "User",
				Username:  "testuser",
				Email:     "testuser@test.localhost",
				Password:  "test123",
				IsActive:  true,
			},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range seed {
			tenant := s.tenant
			if err := tx.Where("domain = ?", tenant.Domain).FirstOrCreate(&tenant).Error; err != nil {
				return err
			}

			hashed, err := auth.HashPassword(s.user.Password)
			if err != nil {
				return err
			}
			user := s.user
			user.Password = hashed
			user.TenantID = tenant.ID
			if err := tx.Where("username = ? AND tenant_id = ?", user.Username, tenant.ID).
				FirstOrCreate(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
