package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/token"
	appmw "storefront/internal/middleware"
	"storefront/internal/usecase"
	"storefront/internal/usecase/auth"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// New はDBハンドルから全部品を組み立てたechoを返す
func New(cfg config.Config, gormDB *gorm.DB, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins(),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, appmw.HeaderRequestID},
	}))

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	roleRepo := infraRepo.NewRoleGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	jwt := token.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	clock := auth.SystemClock{}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, roleRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, jwt, clock)
	profileUC := auth.NewProfileUsecase(userRepo, hasher, verifier)
	cartUC := usecase.NewCartUsecase(userRepo, productRepo, cartItemRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	productUC := usecase.NewProductUsecase(txm, productRepo, categoryRepo)
	userUC := usecase.NewUserUsecase(txm, userRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	RegisterRoutes(e, Handlers{
		Auth:       handler.NewAuthHandler(registerUC, loginUC, profileUC),
		Cart:       handler.NewCartHandler(cartUC),
		Orders:     handler.NewOrderHandler(orderUC, adminOrderUC),
		Categories: handler.NewCategoryHandler(categoryUC),
		Products:   handler.NewProductHandler(productUC),
		Users:      handler.NewUserHandler(userUC),
		AuditLogs:  handler.NewAuditLogHandler(auditUC),
	}, jwt, userRepo)

	return e
}

// Start はSIGINT/SIGTERMを受けるまで待ち、SHUTDOWN_TIMEOUT以内に止める
func Start(ctx context.Context, cfg config.Config, e *echo.Echo, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
