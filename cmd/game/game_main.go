package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"AgeOfTribes/internal/app"
	gamemongo "AgeOfTribes/internal/infra/mongodb"
	gamemysql "AgeOfTribes/internal/infra/mysql"
	gamehttp "AgeOfTribes/internal/interfaces/http"
	gamews "AgeOfTribes/internal/interfaces/ws"
	"AgeOfTribes/internal/shared/infrastructure/db"
	sharedmongo "AgeOfTribes/internal/shared/infrastructure/mongo"
	"AgeOfTribes/internal/shared/logs"
	"AgeOfTribes/internal/shared/serverconfig"
	transporthttp "AgeOfTribes/internal/shared/transport/http"
	"AgeOfTribes/internal/shared/utils"
	"AgeOfTribes/modules/kit/logx"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	log := logx.NewZapLogger(logs.Logger())

	gormDB, err := db.Open(serverconfig.Conf.MySQL)
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
	}
	mongoClient, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
	if err != nil {
		logs.Fatal("open mongodb failed", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	snowflake, err := utils.NewSnowflake(int64(serverconfig.Conf.Game.ServerID))
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	provider := gamemysql.NewProvider(gormDB)
	reports := gamemongo.NewReportRepository(mongoClient.Database(serverconfig.Conf.MongoDB.Database))
	hub := gamews.NewHub(log)

	speed := serverconfig.Conf.Game.Speed
	mapSize := serverconfig.Conf.Game.MapSize
	svc := app.NewGameService(provider, snowflake.NextID, time.Now, log, speed, mapSize)
	resolver := app.NewResolver(provider, snowflake.NextID, log, reports, hub, speed, mapSize)

	wc := serverconfig.Conf.Worker
	worker := app.NewWorker(provider, resolver, log, time.Now,
		time.Duration(wc.IntervalMS)*time.Millisecond,
		wc.BatchSize,
		uint8(wc.MaxAttempts),
		time.Duration(wc.RetryDelayS)*time.Second,
		time.Duration(wc.LeaseS)*time.Second,
	)

	addr := fmt.Sprintf("%s:%d", serverconfig.Conf.HTTPServer.Host, serverconfig.Conf.HTTPServer.Port)
	server := transporthttp.NewHttpServer(addr, nil, log)
	handler := gamehttp.NewGameHandler(svc, provider, reports, log)
	handler.RegisterRoutes(server.Group())
	server.Engine().GET("/ws", hub.Serve)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go worker.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logs.Info("game http server started", zap.String("addr", addr))
		if err := server.Start(); err != nil && err != nethttp.ErrServerClosed {
			errCh <- fmt.Errorf("game http serve failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown failed", zap.Error(err))
	}
}
