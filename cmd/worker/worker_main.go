// 独立结算进程：只认领并结算延时任务，可与接口进程分开水平扩展。
// SKIP LOCKED 认领保证多进程并发下任务不重复交付。
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"AgeOfTribes/internal/app"
	gamemongo "AgeOfTribes/internal/infra/mongodb"
	gamemysql "AgeOfTribes/internal/infra/mysql"
	"AgeOfTribes/internal/shared/infrastructure/db"
	sharedmongo "AgeOfTribes/internal/shared/infrastructure/mongo"
	"AgeOfTribes/internal/shared/logs"
	"AgeOfTribes/internal/shared/serverconfig"
	"AgeOfTribes/internal/shared/utils"
	"AgeOfTribes/modules/kit/logx"
)

// noopNotifier 独立工人进程不持有长连接，推送静默丢弃，
// 客户端通过战报接口拉取兜底。
type noopNotifier struct{}

func (noopNotifier) NotifyReport(playerID, reportID int64) {}

func main() {
	serverconfig.Load()
	if err := logs.Init("worker", serverconfig.Conf.Log); err != nil {
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

	speed := serverconfig.Conf.Game.Speed
	mapSize := serverconfig.Conf.Game.MapSize
	resolver := app.NewResolver(provider, snowflake.NextID, log, reports, noopNotifier{}, speed, mapSize)

	wc := serverconfig.Conf.Worker
	worker := app.NewWorker(provider, resolver, log, time.Now,
		time.Duration(wc.IntervalMS)*time.Millisecond,
		wc.BatchSize,
		uint8(wc.MaxAttempts),
		time.Duration(wc.RetryDelayS)*time.Second,
		time.Duration(wc.LeaseS)*time.Second,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.Run(ctx)
	logs.Info("worker 已退出")
}
