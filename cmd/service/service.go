// @title        Cafe Finder API
// @version      1.0
// @description  Cafe Finder 的按讚 JSON API；需先以網頁登入取得 session cookie
// @host         localhost:8080
// @BasePath     /
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafe-finder/internal/cache"
	"cafe-finder/internal/config"
	"cafe-finder/internal/database"
	"cafe-finder/internal/forms"
	"cafe-finder/internal/handler"
	"cafe-finder/internal/logger"
	"cafe-finder/internal/metrics"
	"cafe-finder/internal/model"
	"cafe-finder/internal/render"
	"cafe-finder/internal/router"
	"cafe-finder/internal/session"
	"cafe-finder/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "cafe-finder/docs" // 引入 swag 產出的 docs
)

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	newRenderer     = render.New
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer  = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	notifyContext   = signal.NotifyContext
	exitFunc        = os.Exit
	shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
)

// newServer 組出 echo 實例：validator、renderer、錯誤頁、middleware 與路由
func newServer(cfg *config.Config, db database.DB, cch cache.Cache) (*echo.Echo, error) {
	rnd, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("載入樣板失敗: %w", err)
	}

	opts := session.Options{
		Secret:     []byte(cfg.SecretKey),
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionSecure,
		LoadUser: func(ctx context.Context, userID int) (*model.User, error) {
			return store.GetUserByID(ctx, db, userID)
		},
	}
	if cch != nil {
		opts.Revoker = cache.NewDenylist(cch)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = forms.NewValidator()
	e.Renderer = rnd
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(middleware.Recover())
	e.Use(logger.Middleware())
	e.Use(metrics.Middleware())
	e.Use(session.NewManager(opts).Middleware())

	router.Setup(e, db, cch, router.Options{
		RequireAdminForCafeEdits: cfg.RequireAdminForCafeEdits,
		SecureCookies:            cfg.SessionSecure,
	})
	return e, nil
}

// serve 啟動 HTTP server，收到中斷訊號後在 timeout 內優雅關閉
func serve(e *echo.Echo, addr string, timeout time.Duration) error {
	ctx, stop := notifyContext(context.Background(), shutdownSignals...)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Log.Infow("shutting down", "timeout", timeout)
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdownServer(sctx, e); err != nil {
		return fmt.Errorf("關閉 server 失敗: %w", err)
	}
	return nil
}

func run(args []string) error {
	fs := flag.NewFlagSet("service", flag.ContinueOnError)
	rollback := fs.Bool("rollback", false, "回滾所有 migration 後結束")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("logger 初始化失敗: %w", err)
	}
	defer logger.Sync()

	if *rollback {
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("Migration 回滾失敗: %w", err)
		}
		return nil
	}

	ctx := context.Background()
	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	var cch cache.Cache
	if cfg.RedisEnabled() {
		cch, err = newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %w", err)
		}
		defer cch.Close()
	} else {
		logger.Log.Warnw("REDIS_ADDR not set, logout will not revoke sessions")
	}

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	e, err := newServer(cfg, db, cch)
	if err != nil {
		return err
	}

	logger.Log.Infow("listening", "addr", cfg.ListenAddr)
	return serve(e, cfg.ListenAddr, cfg.ShutdownTimeout)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
