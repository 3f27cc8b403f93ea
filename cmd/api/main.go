package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexadigital/nexa-api/config"
	"github.com/nexadigital/nexa-api/internal/cache"
	"github.com/nexadigital/nexa-api/internal/compose"
	"github.com/nexadigital/nexa-api/internal/drafts"
	"github.com/nexadigital/nexa-api/internal/handlers"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/middleware"
	"github.com/nexadigital/nexa-api/internal/portfolio"
	"github.com/nexadigital/nexa-api/internal/services"
	"github.com/nexadigital/nexa-api/internal/session"
	"github.com/nexadigital/nexa-api/pkg/httpclient"
	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"github.com/nexadigital/nexa-api/pkg/profiling"
	"github.com/nexadigital/nexa-api/pkg/recaptcha"
	"github.com/nexadigital/nexa-api/pkg/storage"
	"github.com/nexadigital/nexa-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type routeHandlers struct {
	directory *handlers.DirectoryHandler
	auth      *handlers.AuthHandler
	dashboard *handlers.DashboardHandler
	portfolio *handlers.PortfolioHandler
	logs      *handlers.LogsHandler
	health    *handlers.HealthHandler
}

type rateLimiters struct {
	general   *middleware.RateLimiter
	directory *middleware.RateLimiter
	auth      *middleware.RateLimiter
	profile   *middleware.RateLimiter
}

func (rl rateLimiters) stop() {
	rl.general.Stop()
	rl.directory.Stop()
	rl.auth.Stop()
	rl.profile.Stop()
}

// registerDirectoryRoutes registers the embeddable counters. They are read
// from any origin and never carry credentials.
func registerDirectoryRoutes(api *gin.RouterGroup, limiter *middleware.RateLimiter, h *handlers.DirectoryHandler) {
	public := api.Group("")
	public.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		MaxAge:          12 * time.Hour,
	}))

	preflight := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	public.GET("/count", limiter.Middleware(), h.Count)
	public.OPTIONS("/count", preflight)
	public.GET("/avatars", limiter.Middleware(), h.Avatars)
	public.OPTIONS("/avatars", preflight)
}

// registerV1Routes registers the site API used by the agency frontend
func registerV1Routes(v1 *gin.RouterGroup, session middleware.SessionOptions, rl rateLimiters, h routeHandlers) {
	auth := v1.Group("/auth")
	auth.POST("/sign-in", rl.auth.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), h.auth.SignIn)
	auth.POST("/federated", rl.auth.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), h.auth.FederatedSignIn)
	auth.POST("/sign-out", middleware.OptionalUserSession(session), h.auth.SignOut)
	auth.GET("/session", rl.general.Middleware(), middleware.OptionalUserSession(session), h.auth.Session)
	auth.POST("/password-reset", rl.auth.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), h.auth.RequestPasswordReset)
	auth.POST("/password-reset/verify", rl.auth.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), h.auth.VerifyPasswordResetCode)
	auth.POST("/password-reset/confirm", rl.auth.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), h.auth.ConfirmPasswordReset)
	auth.POST("/profile", rl.profile.Middleware(), middleware.UserSessionMiddleware(session), middleware.BodySizeLimitMiddleware(16*1024), h.auth.UpdateProfile)
	auth.POST("/profile/picture", rl.profile.Middleware(), middleware.UserSessionMiddleware(session), middleware.BodySizeLimitMiddleware(10*1024*1024), h.auth.UploadProfilePicture)

	dashboard := v1.Group("/dashboard")
	dashboard.Use(rl.general.Middleware(), middleware.UserSessionMiddleware(session))
	dashboard.GET("/flow", h.dashboard.GetFlow)
	dashboard.POST("/flow/actions", middleware.BodySizeLimitMiddleware(16*1024), h.dashboard.Act)
	dashboard.POST("/flow/submit-project", h.dashboard.SubmitProject)
	dashboard.POST("/flow/submit-question", h.dashboard.SubmitQuestion)

	v1.GET("/projects", rl.general.Middleware(), h.portfolio.List)
	v1.POST("/logs", rl.general.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024), h.logs.ReceiveFrontendLogs)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Nexa API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Options{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
		SampleRatio:       cfg.Observability.TraceSampleRatio,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	httpClient := httpclient.NewClientWithTimeout(10 * time.Second)

	// Identity provider: the admin SDK serves the directory, federated
	// sign-in and profile updates; the REST client serves password flows
	admin, err := identity.NewAdmin(context.Background(), identity.AdminOptions{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsPath: cfg.Firebase.CredentialsPath,
	})
	if err != nil {
		logger.Fatal("Failed to initialize identity provider", zap.Error(err))
	}
	if cfg.Identity.APIKey == "" {
		logger.Warn("FIREBASE_WEB_API_KEY not set: password sign-in and reset will fail")
	}
	rest := identity.NewRESTClient(cfg.Identity.APIKey, cfg.Identity.BaseURL, httpClient)

	authDeps := services.AuthDeps{
		REST:    rest,
		Admin:   admin,
		Captcha: recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient),
	}
	if cfg.StorageEnabled() {
		storageClient, storageErr := storage.NewClient(storage.Options{
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.BucketName,
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if storageErr != nil {
			logger.Fatal("Failed to initialize object storage", zap.Error(storageErr))
		}
		authDeps.Storage = storageClient
	} else {
		logger.Warn("Profile picture uploads disabled: storage not configured")
	}

	// Session events fan out to subscribers; sign-out drops the draft
	hub := session.NewHub()
	authDeps.Hub = hub

	draftStore, err := drafts.New(cfg.Drafts.Backend, cfg.Drafts.RedisURL, cfg.DraftTTL())
	if err != nil {
		logger.Fatal("Failed to initialize draft store", zap.Error(err))
	}
	logger.Info("Draft store initialized", zap.String("backend", draftStore.Name()))

	catalog, err := portfolio.Load()
	if err != nil {
		logger.Fatal("Failed to load portfolio", zap.Error(err))
	}

	// Initialize services
	directoryService := services.NewDirectoryService(admin, cache.NewCountCache(cfg.CountCacheTTL()), services.DirectoryOptions{
		PageSize:  cfg.Directory.PageSize,
		PageDelay: cfg.Directory.PageDelay,
	})
	authService := services.NewAuthService(authDeps, cfg)
	requestService := services.NewRequestService(
		draftStore,
		compose.NewComposer(cfg.WhatsApp.BaseURL, cfg.WhatsApp.Phone, cfg.WhatsApp.CompanyName),
		httpClient,
		services.RequestOptions{
			LeadTriggerURL: cfg.EventTriggers.LeadCreatedTriggerURL,
			Location:       cfg.Location(),
		},
	)
	disposeDraftCleanup := hub.Subscribe(requestService.OnSessionEvent)

	// Pre-warm the count so the first visitor does not pay for the walk
	var warmer *cache.Warmer
	if cfg.Directory.WarmSchedule != "" && cfg.CountCacheTTL() > 0 {
		warmer, err = cache.NewWarmer("directory-count", cfg.Directory.WarmSchedule, 2*time.Minute, directoryService.RefreshCount)
		if err != nil {
			logger.Fatal("Failed to schedule count warm-up", zap.Error(err))
		}
		warmer.Start()
		go warmer.RunNow()
	}

	checks := map[string]handlers.ReadinessCheck{}
	if pinger, ok := draftStore.(interface{ Ping(context.Context) error }); ok {
		checks["drafts"] = pinger.Ping
	}

	// Initialize handlers
	h := routeHandlers{
		directory: handlers.NewDirectoryHandler(directoryService),
		auth:      handlers.NewAuthHandler(authService),
		dashboard: handlers.NewDashboardHandler(requestService),
		portfolio: handlers.NewPortfolioHandler(catalog),
		logs:      handlers.NewLogsHandler(cfg.Logging.Dir),
		health:    handlers.NewHealthHandler(checks),
	}

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LanguageMiddleware(i18n.Parse(cfg.Server.DefaultLanguage, i18n.Default)))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	rl := rateLimiters{
		general:   middleware.NewRateLimiter(100, 200), // 100 req/sec, burst of 200
		directory: middleware.NewRateLimiter(5, 10),    // each miss walks the whole directory
		auth:      middleware.NewRateLimiter(0.2, 5),   // 1 req/5s, burst of 5
		profile:   middleware.NewRateLimiter(1, 5),
	}
	defer rl.stop()

	// API routes
	api := router.Group("/api")
	api.GET("/healthcheck", rl.general.Middleware(), h.health.Healthcheck)
	api.GET("/metrics", rl.general.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	registerDirectoryRoutes(api, rl.directory, h.directory)

	// CORS for the site API - only the agency's own origins, with cookies
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	v1 := router.Group("/api/v1")
	v1.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Request-ID", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	registerV1Routes(v1, middleware.SessionOptions{
		TokenManager: authService.GetTokenManager(),
		CookieDomain: authService.GetCookieDomain(),
		CookieSecure: authService.GetCookieSecure(),
	}, rl, h)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		// A cold /api/count walks the whole directory
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if warmer != nil {
		warmer.Stop(ctx)
	}
	disposeDraftCleanup()
	hub.Close()
	if closer, ok := draftStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close draft store", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
