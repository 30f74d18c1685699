package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/config"
	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/httpapi"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/memstore"
	"github.com/fekuna/omnipos-sales-service/internal/migrations"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	_ "github.com/fekuna/omnipos-sales-service/internal/pkg/codec"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/search"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/sale"

	accH "github.com/fekuna/omnipos-sales-service/internal/account/handler"
	accRepoPkg "github.com/fekuna/omnipos-sales-service/internal/account/repository"
	accUCPkg "github.com/fekuna/omnipos-sales-service/internal/account/usecase"

	cartH "github.com/fekuna/omnipos-sales-service/internal/cart/handler"
	cartRepoPkg "github.com/fekuna/omnipos-sales-service/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-sales-service/internal/cart/usecase"

	catH "github.com/fekuna/omnipos-sales-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-sales-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-sales-service/internal/category/usecase"

	custH "github.com/fekuna/omnipos-sales-service/internal/customer/handler"
	custRepoPkg "github.com/fekuna/omnipos-sales-service/internal/customer/repository"
	custUCPkg "github.com/fekuna/omnipos-sales-service/internal/customer/usecase"

	invH "github.com/fekuna/omnipos-sales-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/usecase"

	notifH "github.com/fekuna/omnipos-sales-service/internal/notification/handler"
	notifRepoPkg "github.com/fekuna/omnipos-sales-service/internal/notification/repository"
	notifUCPkg "github.com/fekuna/omnipos-sales-service/internal/notification/usecase"

	prodH "github.com/fekuna/omnipos-sales-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-sales-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-sales-service/internal/product/usecase"

	reportH "github.com/fekuna/omnipos-sales-service/internal/report/handler"
	reportRepoPkg "github.com/fekuna/omnipos-sales-service/internal/report/repository"
	reportUCPkg "github.com/fekuna/omnipos-sales-service/internal/report/usecase"

	saleH "github.com/fekuna/omnipos-sales-service/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-sales-service/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-sales-service/internal/sale/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type repositories struct {
	products      product.Repository
	categories    category.Repository
	customers     customer.Repository
	accounts      account.Repository
	sales         sale.Repository
	inventory     inventory.Repository
	notifications notification.Repository
	reports       report.Repository
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	loc, err := time.LoadLocation(cfg.Sales.Timezone)
	if err != nil {
		appLogger.Warn("Unknown timezone, using local time", zap.String("timezone", cfg.Sales.Timezone), zap.Error(err))
		loc = time.Local
	}
	bundle := i18n.MustNewBundle()
	translator := bundle.Translator(cfg.Sales.Locale)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Repositories
	var repos repositories
	var store *memstore.Store
	switch cfg.Server.StoreDriver {
	case "memory":
		store = memstore.New()
		repos = repositories{
			products:      store.Products(),
			categories:    store.Categories(),
			customers:     store.Customers(),
			accounts:      store.Accounts(),
			sales:         store.Sales(),
			inventory:     store.Inventory(),
			notifications: store.Notifications(),
			reports:       store.Reports(),
		}
		appLogger.Warn("Using in-memory store, data is lost on restart")
	default:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			if err := migrations.Run(ctx, db); err != nil {
				appLogger.Fatal("Could not apply migrations", zap.Error(err))
			}
		}

		repos = repositories{
			products:      prodRepoPkg.NewPGRepository(db),
			categories:    catRepoPkg.NewPGRepository(db),
			customers:     custRepoPkg.NewPGRepository(db),
			accounts:      accRepoPkg.NewPGRepository(db),
			sales:         saleRepoPkg.NewPGRepository(db),
			inventory:     invRepoPkg.NewPGRepository(db),
			notifications: notifRepoPkg.NewPGRepository(db),
			reports:       reportRepoPkg.NewPGRepository(db),
		}
	}

	// 4. Initialize Redis
	var redisClient *cache.RedisClient
	var locker cache.Locker = cache.NewLocalLocker()
	var sessions cart.SessionRepository
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = redisClient.Locker()
		sessions = cartRepoPkg.NewRedisRepository(redisClient, time.Duration(cfg.Sales.CartTTLMinutes)*time.Minute)
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		if store == nil {
			store = memstore.New()
		}
		sessions = store.Carts()
		appLogger.Warn("Redis disabled, carts and locks are local to this process")
	}

	// 5. Initialize Kafka
	var publisher broker.Publisher
	var kafkaConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		kafkaCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer := broker.NewProducer(kafkaCfg)
		defer producer.Close()
		publisher = producer

		kafkaConsumer = broker.NewConsumer(kafkaCfg)
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 6. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			// product search falls back to the database
			appLogger.Warn("Could not connect to Elasticsearch", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize UseCases
	notifUC := notifUCPkg.NewNotificationUseCase(repos.notifications, translator, appLogger)
	watcher := invListenerPkg.NewLowStockWatcher(notifUC, appLogger)

	catUC := catUCPkg.NewCategoryUseCase(repos.categories, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.products, redisClient, esClient, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(repos.customers, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(repos.inventory, locker, redisClient, watcher, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(sessions, repos.products, repos.customers, appLogger)
	accUC := accUCPkg.NewAccountUseCase(repos.accounts, repos.customers, locker, publisher, accUCPkg.Options{
		CreditWarningRatio: cfg.Sales.CreditWarningRatio,
	}, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(repos.sales, sessions, locker, publisher, saleUCPkg.Options{
		DecrementStock:     cfg.Sales.DecrementStock,
		CreditWarningRatio: cfg.Sales.CreditWarningRatio,
	}, appLogger)
	reportUC := reportUCPkg.NewReportUseCase(repos.reports, loc, bundle, appLogger)

	// 8. Start Listener
	if kafkaConsumer != nil {
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, notifUC, appLogger)
		go invListener.Start(ctx)
	}

	// 9. Start gRPC Server
	verifier := middleware.NewVerifier(cfg.JWT.SecretKey)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.UnaryLoggingInterceptor(appLogger),
			verifier.UnaryAuthInterceptor("/grpc.health.v1.Health/"),
		),
	)

	salesv1.RegisterCategoryServiceServer(grpcServer, catH.NewCategoryHandler(catUC, appLogger))
	salesv1.RegisterProductServiceServer(grpcServer, prodH.NewProductHandler(prodUC, appLogger))
	salesv1.RegisterCustomerServiceServer(grpcServer, custH.NewCustomerHandler(custUC, appLogger))
	salesv1.RegisterInventoryServiceServer(grpcServer, invH.NewInventoryHandler(invUC, loc, appLogger))
	salesv1.RegisterCartServiceServer(grpcServer, cartH.NewCartHandler(cartUC, appLogger))
	salesv1.RegisterSaleServiceServer(grpcServer, saleH.NewSaleHandler(saleUC, bundle, cfg.Sales.Locale, loc, appLogger))
	salesv1.RegisterAccountServiceServer(grpcServer, accH.NewAccountHandler(accUC, appLogger))
	salesv1.RegisterReportServiceServer(grpcServer, reportH.NewReportHandler(reportUC, translator, loc, appLogger))
	salesv1.RegisterNotificationServiceServer(grpcServer, notifH.NewNotificationHandler(notifUC, appLogger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 10. Start HTTP Server
	httpServer := &http.Server{
		Addr: withColon(cfg.Server.HTTPPort),
		Handler: httpapi.NewRouter(httpapi.Deps{
			Sales:    saleUC,
			Reports:  reportUC,
			Verifier: verifier,
			Bundle:   bundle,
			Locale:   cfg.Sales.Locale,
			Location: loc,
			Logger:   appLogger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
