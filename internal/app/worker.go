package app

import (
	"context"
	"errors"
	"time"

	"AgeOfTribes/internal/job"
	"AgeOfTribes/modules/kit/errx"
	"AgeOfTribes/modules/kit/logx"

	"go.uber.org/zap"
)

// Worker 周期轮询到期任务：认领一批，逐条独立结算。
// 单条失败不会中断循环，多实例并行靠行级认领互斥；
// 认领后崩溃的任务由租约超时重新交付。
type Worker struct {
	uow         UnitOfWorkProvider
	resolver    *Resolver
	log         Logger
	now         NowFunc
	interval    time.Duration
	batchSize   int
	maxAttempts uint8
	backoff     time.Duration
	lease       time.Duration
}

func NewWorker(uow UnitOfWorkProvider, resolver *Resolver, log Logger, now NowFunc,
	interval time.Duration, batchSize int, maxAttempts uint8, backoff, lease time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	if maxAttempts == 0 {
		maxAttempts = 3
	}
	if backoff <= 0 {
		backoff = 30 * time.Second
	}
	if lease <= 0 {
		lease = 5 * time.Minute
	}
	return &Worker{
		uow:         uow,
		resolver:    resolver,
		log:         log,
		now:         now,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		lease:       lease,
	}
}

// Run 阻塞运行直到 ctx 取消。
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("job worker started", zap.Duration("interval", w.interval), zap.Int("batch", w.batchSize))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("job worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick 认领一批到期任务并逐条结算。独立导出便于测试驱动。
func (w *Worker) Tick(ctx context.Context) {
	now := w.now()
	tasks, err := w.claim(ctx, now)
	if err != nil {
		w.log.WithContext(ctx).Error("claim due tasks failed", zap.Error(err))
		return
	}
	for _, t := range tasks {
		w.handle(ctx, t, now)
	}
}

// claim 在独立短事务里完成认领，认领即持有。
func (w *Worker) claim(ctx context.Context, now time.Time) ([]*job.Job, error) {
	uow, err := w.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	tasks, err := uow.Jobs().ClaimDue(ctx, now, w.lease, w.batchSize)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (w *Worker) handle(ctx context.Context, t *job.Job, now time.Time) {
	err := w.resolver.Resolve(ctx, t, now)
	if err == nil {
		return
	}

	if retryable(err) {
		w.rearm(ctx, t, err)
		return
	}
	w.fail(ctx, t, err)
}

// retryable 只有系统类故障值得重试，业务拒绝是终态。
func retryable(err error) bool {
	return errors.Is(err, errx.ErrUnavailable) ||
		errors.Is(err, errx.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (w *Worker) rearm(ctx context.Context, t *job.Job, cause error) {
	uow, err := w.uow.Begin(ctx)
	if err != nil {
		w.log.WithContext(ctx).Error("rearm task: begin failed", zap.Int64("job_id", t.ID), zap.Error(err))
		return
	}
	defer uow.Rollback()

	requeued := t.Rearm(w.backoff, w.maxAttempts, cause.Error())
	if err := uow.Jobs().Save(ctx, t); err != nil {
		w.log.WithContext(ctx).Error("rearm task: save failed", zap.Int64("job_id", t.ID), zap.Error(err))
		return
	}
	if err := uow.Commit(); err != nil {
		w.log.WithContext(ctx).Error("rearm task: commit failed", zap.Int64("job_id", t.ID), zap.Error(err))
		return
	}
	if requeued {
		w.log.WithContext(ctx).Warn("task requeued after infrastructure failure",
			zap.Int64("job_id", t.ID), zap.Uint8("attempts", t.Attempts), zap.Error(cause))
	} else {
		logx.ReportSysErrorWithLoggerContext(ctx, w.log,
			logx.NewSysLog("job_"+string(t.Type), cause), zap.Int64("job_id", t.ID))
	}
}

func (w *Worker) fail(ctx context.Context, t *job.Job, cause error) {
	uow, err := w.uow.Begin(ctx)
	if err != nil {
		w.log.WithContext(ctx).Error("fail task: begin failed", zap.Int64("job_id", t.ID), zap.Error(err))
		return
	}
	defer uow.Rollback()

	t.MarkFailed(cause.Error())
	if err := uow.Jobs().Save(ctx, t); err != nil {
		w.log.WithContext(ctx).Error("fail task: save failed", zap.Int64("job_id", t.ID), zap.Error(err))
		return
	}
	if err := uow.Commit(); err != nil {
		w.log.WithContext(ctx).Error("fail task: commit failed", zap.Int64("job_id", t.ID), zap.Error(err))
		return
	}
	logx.ReportBizWithLoggerContext(ctx, w.log,
		logx.NewBizLog("job_"+string(t.Type), GetErrorReasonCode(cause), cause.Error()),
		zap.Int64("job_id", t.ID))
}
