package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/capital/finance/app/api/routes"
	"github.com/capital/finance/pkg/config"
	"github.com/capital/finance/pkg/domains/auth"
	"github.com/capital/finance/pkg/domains/category"
	"github.com/capital/finance/pkg/domains/goal"
	"github.com/capital/finance/pkg/domains/reminder"
	"github.com/capital/finance/pkg/domains/summary"
	"github.com/capital/finance/pkg/domains/transaction"
	"github.com/capital/finance/pkg/mailer"
	"github.com/capital/finance/pkg/middleware"
	"github.com/capital/finance/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/capital/finance/docs"
)

const (
	NotFoundMessage         = "route not found"
	MethodNotAllowedMessage = "method not allowed"
)

// RegisterValidators adds the project validations to gin's binding engine.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.NewCustomValidator(v)
	}
}

// NewEngine builds the HTTP handler with every route wired to services
// backed by db.
func NewEngine(cfg *config.Config, db *gorm.DB, m mailer.Mailer) (*gin.Engine, error) {
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	RegisterValidators()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}

	app := gin.New()
	app.HandleMethodNotAllowed = true
	app.Use(gin.LoggerWithFormatter(func(log gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] - %s \"%s %s %s %d %s\"\n",
			log.TimeStamp.Format("2006-01-02 15:04:05"),
			log.ClientIP,
			log.Method,
			log.Path,
			log.Request.Proto,
			log.StatusCode,
			log.Latency,
		)
	}))
	app.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	app.Use(gin.Recovery())
	app.Use(otelgin.Middleware(cfg.App.Name))
	app.Use(middleware.RequestID())
	app.Use(middleware.ClaimIp())
	app.Use(cors.New(corsConfig(cfg.Allows)))

	p := ginprom.New(
		ginprom.Engine(app),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/docs/*any"),
	)
	app.Use(p.Instrument())

	app.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": NotFoundMessage})
	})
	app.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": MethodNotAllowedMessage})
	})
	app.GET("/health", health(db))

	api := app.Group("/api/v1")

	// Auth Routes
	issuer := auth.NewTokenIssuer(cfg.Auth.Secret)
	auth_repo := auth.NewRepo(db)
	auth_service := auth.NewService(auth_repo, issuer, m)
	routes.AuthRoutes(api.Group("/auth"), auth_service)

	protected := api.Group("", middleware.CheckAuth(auth_service))

	// Category Routes
	category_service := category.NewService(category.NewRepo(db))
	routes.CategoryRoutes(protected.Group("/categories"), category_service, cfg.Admin.Key)

	// Transaction and Reminder Routes
	reminder_service := reminder.NewService(reminder.NewRepo(db), loc)
	transaction_service := transaction.NewService(transaction.NewRepo(db), loc)
	routes.TransactionRoutes(protected.Group("/transactions"), transaction_service, reminder_service)
	routes.ReminderRoutes(protected.Group("/reminders"), reminder_service)

	// Goal Routes
	goal_service := goal.NewService(goal.NewRepo(db))
	routes.GoalRoutes(protected.Group("/goals"), goal_service)

	// Summary Routes
	summary_service := summary.NewService(summary.NewRepo(db), loc)
	routes.SummaryRoutes(protected.Group("/summary"), summary_service, loc)

	return app, nil
}

// LaunchHttpServer serves until ctx is cancelled.
func LaunchHttpServer(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	zap.L().Info("starting HTTP server")

	m, err := mailer.New(cfg.Mail)
	if err != nil {
		return err
	}
	app, err := NewEngine(cfg, db, m)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.App.Host, cfg.App.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return Serve(ctx, ln, app)
}

// Serve handles requests on ln until ctx is cancelled, then drains in-flight
// requests for up to ten seconds. It returns only after the accept loop has
// stopped.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server is running", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	zap.L().Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsConfig(allows config.Allows) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Origin", "Accept", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		AllowOrigins:     []string{"*"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allows.Methods) > 0 {
		c.AllowMethods = allows.Methods
	}
	if len(allows.Headers) > 0 {
		c.AllowHeaders = allows.Headers
	}
	if len(allows.Origins) > 0 {
		c.AllowOrigins = allows.Origins
	}
	return c
}

func health(db *gorm.DB) func(c *gin.Context) {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c)
		}
		if err != nil {
			zap.L().Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
