package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/xtding233/arcade-backend/internal/api"
	"github.com/xtding233/arcade-backend/internal/config"
	"github.com/xtding233/arcade-backend/internal/game"
	"github.com/xtding233/arcade-backend/internal/rpc"
	"github.com/xtding233/arcade-backend/internal/service"
	"github.com/xtding233/arcade-backend/internal/store"
	"github.com/xtding233/arcade-backend/internal/telemetry"
)

func main() {
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("arcade: %v", err)
	}
}

func run(ctx context.Context, cfg config.Server) error {
	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdownTracing, err := telemetry.Setup(ctx, "arcade", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	loader := game.NewLoader(cfg.ConfigDir)
	games, err := loader.Games()
	if err != nil {
		return err
	}
	for _, g := range games {
		// fail fast on a broken catalog
		switch g.Kind {
		case game.KindWheel:
			_, err = loader.Wheel(g.Name)
		case game.KindRunner:
			_, err = loader.Runner(g.Name)
		}
		if err != nil {
			return err
		}
	}
	logger.Info("games loaded", zap.Int("count", len(games)), zap.String("dir", cfg.ConfigDir))

	if cfg.WatchInterval > 0 {
		w := game.WatchLoader(loader, cfg.WatchInterval, func(path string) {
			logger.Info("game config changed", zap.String("path", path))
		})
		w.Start(ctx)
	}

	opts := []service.Option{service.WithLogger(logger), service.WithTTL(cfg.SessionTTL)}
	if cfg.DBPath != "" {
		db, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, service.WithStore(db))
	}
	svc := service.New(loader, opts...)
	go svc.Janitor(ctx, time.Minute)

	errCh := make(chan error, 2)

	var httpSrv *http.Server
	if cfg.HTTPAddr != "" {
		httpSrv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewServer(svc, logger, cfg.AllowOrigins).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http: %w", err)
			}
		}()
	}

	var rpcSrv *rpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		rpcSrv = rpc.NewServer(svc, logger)
		gs := rpc.NewGRPCServer(rpcSrv)
		defer gs.GracefulStop()
		go func() {
			logger.Info("grpc listening", zap.String("addr", cfg.GRPCAddr))
			if err := gs.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	if rpcSrv != nil {
		rpcSrv.Shutdown()
	}
	if httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}
	return nil
}
