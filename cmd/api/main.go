package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"studio/internal/config"
	"studio/internal/domain/model"
	"studio/internal/handler"
	"studio/internal/infra/db"
	infraRepo "studio/internal/infra/repository"
	"studio/internal/infra/session"
	"studio/internal/infra/storage"
	"studio/internal/server"
	"studio/internal/usecase"
	"studio/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数直指定）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Executor{},
		&model.ExecutorService{},
		&model.Service{},
		&model.OrderStatus{},
		&model.Order{},
		&model.Cart{},
		&model.CartItem{},
		&model.News{},
		&model.Portfolio{},
		&model.Review{},
		&model.Message{},
	); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	//Redis（セッション）
	sessions, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer sessions.Close()

	//MinIO（メディア）
	media, err := storage.NewMinioStore(ctx, cfg.MinioEndpoint,
		cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioSecure)
	if err != nil {
		logger.Fatal("minio connect", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	serviceRepo := infraRepo.NewServiceGormRepository(gormDB)
	executorRepo := infraRepo.NewExecutorGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	statusRepo := infraRepo.NewOrderStatusGormRepository(gormDB)
	newsRepo := infraRepo.NewNewsGormRepository(gormDB)
	portfolioRepo := infraRepo.NewPortfolioGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	messageRepo := infraRepo.NewMessageGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//ステータスのシード（冪等）
	if err := statusRepo.Seed(ctx); err != nil {
		logger.Fatal("seed order statuses", zap.Error(err))
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, executorRepo, sessions,
		validator.NewAuthValidator(userRepo), media, cfg.JWTSecret, cfg.SessionTTL)
	cartUC := usecase.NewCartUsecase(txManager, cartRepo, cartRepo, serviceRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, statusRepo, serviceRepo, userRepo, executorRepo)
	serviceUC := usecase.NewServiceUsecase(serviceRepo, media)
	executorUC := usecase.NewExecutorUsecase(executorRepo, serviceRepo, userRepo, reviewRepo)
	newsUC := usecase.NewNewsUsecase(newsRepo, userRepo, media)
	portfolioUC := usecase.NewPortfolioUsecase(portfolioRepo, executorRepo, media)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, executorRepo, orderRepo, userRepo)
	messageUC := usecase.NewMessageUsecase(messageRepo, userRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(authUC, cfg.IsProd(), cfg.SessionTTL),
		Cart:      handler.NewCartHandler(cartUC),
		Order:     handler.NewOrderHandler(orderUC),
		Service:   handler.NewServiceHandler(serviceUC),
		Executor:  handler.NewExecutorHandler(executorUC),
		News:      handler.NewNewsHandler(newsUC),
		Portfolio: handler.NewPortfolioHandler(portfolioUC),
		Review:    handler.NewReviewHandler(reviewUC),
		Message:   handler.NewMessageHandler(messageUC),
	}

	//Server起動
	e := server.New(cfg, logger, sessions, handlers)
	logger.Info("starting", zap.String("port", cfg.Port))
	if err := server.Start(ctx, e, ":"+cfg.Port, logger); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
