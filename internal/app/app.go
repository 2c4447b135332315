package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookthreads/config"
	"bookthreads/internal/adapter/in/rest"
	memstore "bookthreads/internal/adapter/out/storage/inmemory"
	pgstore "bookthreads/internal/adapter/out/storage/postgres"
	"bookthreads/internal/service"
	"bookthreads/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		contentStorage service.ContentStorage
		commentStorage service.CommentStorage
		trManager      service.TxManager
		pool           *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		contentStorage = pgstore.NewContentStorage(pool, trmpgx.DefaultCtxGetter)
		commentStorage = pgstore.NewCommentStorage(pool, trmpgx.DefaultCtxGetter)
		trManager = manager.Must(trmpgx.NewDefaultFactory(pool))

	case config.StorageMemory:
		contentStorage = memstore.NewContentStorage()
		commentStorage = memstore.NewCommentStorage()
		trManager = memstore.NewTxManager()

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}

	contentSvc := service.NewContentService(contentStorage)
	commentSvc := service.NewCommentService(commentStorage, contentStorage, trManager)

	gin.SetMode(gin.ReleaseMode)
	router := rest.NewRouter(log, rest.NewHandler(contentSvc, commentSvc))

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: srv, pool: pool}, nil
}

func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
