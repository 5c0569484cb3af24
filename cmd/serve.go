package cmd

import (
	"database/sql"
	"net"

	"github.com/aitp-labs/aitp-server/app/ai"
	"github.com/aitp-labs/aitp-server/app/cache"
	"github.com/aitp-labs/aitp-server/app/controller"
	"github.com/aitp-labs/aitp-server/app/mailer"
	"github.com/aitp-labs/aitp-server/app/middleware"
	"github.com/aitp-labs/aitp-server/app/repository"
	"github.com/aitp-labs/aitp-server/app/service"
	"github.com/aitp-labs/aitp-server/app/session"
	"github.com/aitp-labs/aitp-server/app/token"
	"github.com/aitp-labs/aitp-server/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server serving authentication, itinerary, and generation endpoints.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	planCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer planCache.Close()

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	sessions := session.NewManager(cfg.TokenTTL, cfg.IsProduction())

	userRepo := repository.NewUserRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)

	authService := service.NewAuthService(userRepo, codec, mailer.New(cfg.SMTP), cfg)
	itineraryService := service.NewItineraryService(itineraryRepo)
	plannerService := service.NewPlannerService(ai.NewClient(cfg.AI), planCache)

	startHTTPServer(cfg, codec, sessions, authService, itineraryService, plannerService)
}

func startHTTPServer(
	cfg *config.Config,
	codec *token.Codec,
	sessions *session.Manager,
	authService service.AuthService,
	itineraryService service.ItineraryService,
	plannerService service.PlannerService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.BaseURL},
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware)

	gatekeeper := middleware.NewGatekeeper(codec, sessions, middleware.DefaultRoutes())
	e.Use(gatekeeper.Guard)

	authController := controller.NewAuthController(authService, codec, sessions)
	itineraryController := controller.NewItineraryController(itineraryService)
	plannerController := controller.NewPlannerController(plannerService)

	e.POST("/register", authController.Register)
	e.POST("/login", authController.Login)
	e.POST("/logout", authController.Logout)
	e.GET("/auth/me", authController.Me)
	e.POST("/forgot-password", authController.ForgotPassword)
	e.POST("/reset-password", authController.ResetPassword)

	e.GET("/api/itineraries", itineraryController.List)
	e.POST("/api/itineraries", itineraryController.Save)
	e.DELETE("/api/itineraries/:id", itineraryController.Delete)
	e.POST("/api/generate-itinerary", plannerController.Generate)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}
