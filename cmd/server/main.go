package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"course_platform/docs"
	_ "course_platform/internal/domain/membership"
	_ "course_platform/internal/domain/user"
	"course_platform/internal/pkg/config"
	"course_platform/internal/pkg/middleware"
	"course_platform/internal/pkg/push"
	"course_platform/internal/pkg/registry"
	"course_platform/internal/pkg/worker"
	"course_platform/pkg/cache"
	"course_platform/pkg/database"
	"course_platform/pkg/logger"
	"course_platform/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Course Platform Membership API
// @version 1.0
// @description 会员套餐、订单与支付
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := &config.GlobalConfig

	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Log

	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("init database", zap.Error(err))
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		zlog.Fatal("init redis", zap.Error(err))
	}
	defer rdb.Close()

	collector := metrics.NewMetricsCollector()
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("get sql.DB", zap.Error(err))
	}
	if err := collector.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
		zlog.Warn("register db stats", zap.Error(err))
	}

	workers := worker.NewWorkerPool(zlog.Named("worker"), cfg.Membership.NotifyWorkers, 256).WithRetry(3, time.Second)
	workers.Start()

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware(zlog.Named("http")))
	r.Use(middleware.MetricsMiddleware(collector))

	limiter := middleware.NewIPRateLimiter(rate.Limit(20), 40)
	r.Use(limiter.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(collector.Handler()))
	if cfg.App.Env != "prod" {
		docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	modCtx := &registry.ModuleContext{
		DB:        db,
		TxManager: database.NewTransactionManager(db),
		Cache:     cache.NewRedisCache(rdb, "course:"),
		Router:    r,
		Config:    cfg,
		Logger:    zlog,
		Metrics:   collector,
		Workers:   workers,
		Pusher:    push.New(cfg.Push, zlog.Named("push")),
	}
	if err := registry.InitModules(modCtx); err != nil {
		zlog.Fatal("init modules", zap.Error(err))
	}

	modCtx.AddJob("db-pool-monitor", database.NewPoolMonitor(sqlDB, 30*time.Second, time.Second, zlog.Named("db")).Run)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	var jobs sync.WaitGroup
	for _, job := range modCtx.Jobs() {
		jobs.Add(1)
		go func(job registry.BackgroundJob) {
			defer jobs.Done()
			zlog.Info("background job started", zap.String("job", job.Name))
			job.Run(jobCtx)
		}(job)
	}

	// 定期清理限流器中的闲置 IP
	jobs.Add(1)
	go func() {
		defer jobs.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.C:
				if n := limiter.Cleanup(); n > 0 {
					zlog.Debug("rate limiter cleanup", zap.Int("removed", n))
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	stopJobs()
	jobs.Wait()
	workers.Stop(ctx)

	_ = sqlDB.Close()
	zlog.Info("server exited")
}
