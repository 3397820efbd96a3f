package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shadinbyte/shopease/internal/authz"
	"github.com/shadinbyte/shopease/internal/config"
	"github.com/shadinbyte/shopease/internal/handler"
	"github.com/shadinbyte/shopease/internal/infra/db"
	"github.com/shadinbyte/shopease/internal/infra/event"
	infraRepo "github.com/shadinbyte/shopease/internal/infra/repository"
	"github.com/shadinbyte/shopease/internal/logger"
	"github.com/shadinbyte/shopease/internal/server"
	"github.com/shadinbyte/shopease/internal/usecase"
	auth "github.com/shadinbyte/shopease/internal/usecase/auth_usecase"
	"github.com/shadinbyte/shopease/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.env はあれば読む（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		EnableCaller: true,
		Component:    "api",
		Environment:  cfg.GoEnv,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//イベント（KAFKA_BROKERS 未設定なら何もしない）
	events := event.New(cfg.KafkaBrokers)
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn("close publisher", "error", err)
		}
	}()

	enforcer, err := authz.New()
	if err != nil {
		return err
	}

	//usecaseに渡す部品
	idGen := auth.UUIDGenerator{}
	clock := auth.SystemClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	v := validator.NewAuthValidator(userRepo)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(txm, v, hasher, rtRepo, issuer, idGen, clock, cfg.RefreshTokenTTL)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, v, verifier, issuer, idGen, clock, cfg.RefreshTokenTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, v, issuer, idGen, clock, cfg.RefreshTokenTTL)
	logoutUC := auth.NewLogoutUsecase(rtRepo, clock)
	meUC := auth.NewMeUsecase(userRepo)
	forceLogoutUC := auth.NewForceLogoutUsecase(userRepo, rtRepo, clock)

	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	productUC := usecase.NewProductUsecase(txm, productRepo, categoryRepo)
	customerUC := usecase.NewCustomerUsecase(customerRepo)
	orderUC := usecase.NewOrderUsecase(txm, events, log)
	analyticsUC := usecase.NewAnalyticsUsecase(analyticsRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	guards := handler.NewGuards(cfg, userRepo, enforcer)
	e := server.New(log, server.Handlers{
		Auth:      handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, meUC, guards),
		Category:  handler.NewCategoryHandler(categoryUC, guards),
		Product:   handler.NewProductHandler(productUC, guards),
		Customer:  handler.NewCustomerHandler(customerUC, guards),
		Order:     handler.NewOrderHandler(orderUC, guards),
		Analytics: handler.NewAnalyticsHandler(analyticsUC, guards),
		Admin:     handler.NewAdminUserHandler(forceLogoutUC, auditUC, guards),
	})

	//Server起動（SIGINT/SIGTERMで停止）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx, e, cfg.Addr(), log)
}
