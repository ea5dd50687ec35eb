package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartBusLink/SmartBusLink/internal/assignment"
	"github.com/SmartBusLink/SmartBusLink/internal/common/config"
	"github.com/SmartBusLink/SmartBusLink/internal/common/db"
	"github.com/SmartBusLink/SmartBusLink/internal/common/discovery"
	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
	"github.com/SmartBusLink/SmartBusLink/internal/common/middleware"
	"github.com/SmartBusLink/SmartBusLink/internal/common/tracing"
	"github.com/SmartBusLink/SmartBusLink/internal/depot"
	"github.com/SmartBusLink/SmartBusLink/internal/notification"
	"github.com/SmartBusLink/SmartBusLink/internal/route"
	"github.com/SmartBusLink/SmartBusLink/internal/trip"
	"github.com/SmartBusLink/SmartBusLink/internal/user"
	"github.com/SmartBusLink/SmartBusLink/internal/vehicle"
)

var (
	configPath = flag.String("config", "configs/scheduler-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	_, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化数据库
	gdb, err := db.NewMySQL(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
		cfg.Database.MaxIdle, cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&user.User{},
		&vehicle.Vehicle{},
		&route.Route{},
		&depot.Depot{},
		&assignment.Assignment{},
		&trip.Trip{},
		&notification.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	// 仓储与业务装配
	userRepo := user.NewRepo(gdb)
	vehicleRepo := vehicle.NewRepo(gdb)
	routeRepo := route.NewRepo(gdb)
	depotRepo := depot.NewRepo(gdb)
	assignmentRepo := assignment.NewRepo(gdb)
	tripRepo := trip.NewRepo(gdb)
	notificationRepo := notification.NewRepo(gdb)

	// 外部推送通道未接入时传 nil dispatcher，只落站内消息
	notificationSvc := notification.NewService(notificationRepo, nil, log)
	assignmentSvc := assignment.NewService(
		assignmentRepo, userRepo, vehicleRepo, routeRepo, depotRepo,
		notificationSvc, notificationSvc, log,
	)
	tripSvc := trip.NewService(tripRepo, assignmentRepo, assignmentSvc, log)
	userHandler := user.NewHandler(userRepo, cfg.Auth, log)

	router := buildRouter(cfg, log, assignmentSvc, tripSvc, userHandler, routeRepo)

	// Consul 服务注册（可选）
	var registry *discovery.ServiceRegistry
	if cfg.Consul.Host != "" {
		client, cerr := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
		if cerr != nil {
			log.Warnf("failed to connect consul: %v", cerr)
		} else {
			registry = discovery.NewServiceRegistry(
				client,
				fmt.Sprintf("%s-%d", cfg.Server.Name, cfg.Server.HTTPPort),
				cfg.Server.Name,
				cfg.Server.Host,
				cfg.Server.HTTPPort,
				"/health",
				[]string{"scheduler", "http"},
			)
			if rerr := registry.Register(); rerr != nil {
				log.Warnf("failed to register service: %v", rerr)
				registry = nil
			}
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: router,
	}

	go func() {
		log.Infof("%s listening on %s", cfg.Server.Name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server exited: %v", err)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Warnf("failed to deregister service: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
	log.Info("server stopped")
}

func buildRouter(cfg *config.Config, log logger.Logger, assignmentSvc *assignment.Service, tripSvc *trip.Service, userHandler *user.Handler, routeRepo *route.Repo) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.AccessLog(log), middleware.Tracing())
	if cfg.Server.RateLimit > 0 {
		router.Use(middleware.RateLimit(middleware.NewTokenBucket(cfg.Server.RateLimit, cfg.Server.RateLimit)))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.Server.Name})
	})

	assignmentHandler := assignment.NewHandler(assignmentSvc, log)
	tripHandler := trip.NewHandler(tripSvc, log)

	public := router.Group("/api")
	userHandler.RegisterPublic(public)
	public.GET("/routes", func(c *gin.Context) {
		routes, err := routeRepo.List(c.Request.Context(), true)
		if err != nil {
			log.Errorf("list routes: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": routes, "count": len(routes)})
	})

	api := router.Group("/api", middleware.JWTAuth(cfg.Auth))

	admin := api.Group("/admin", middleware.RequireUserType(string(user.TypeAdmin)))
	assignmentHandler.RegisterAdmin(admin)
	userHandler.RegisterAdmin(admin)

	driver := api.Group("/driver", middleware.RequireUserType(string(user.TypeDriver)))
	assignmentHandler.RegisterDriver(driver)
	tripHandler.RegisterDriver(driver)

	return router
}
