package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/mysql/model"
	"AgeOfTribes/internal/job"
	"AgeOfTribes/modules/kit/errx"
)

type JobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) Get(ctx context.Context, id int64) (*job.Job, error) {
	var m model.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		return jobToDomain(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, game.ErrJobNotFound
	default:
		return nil, errx.ErrUnavailable.WithData("job_id", id).WithCause(err)
	}
}

func (r *JobRepo) Add(ctx context.Context, j *job.Job) error {
	if err := r.db.WithContext(ctx).Create(jobToModel(j)).Error; err != nil {
		return errx.ErrUnavailable.WithData("job_id", j.ID).WithCause(err)
	}
	return nil
}

func (r *JobRepo) Save(ctx context.Context, j *job.Job) error {
	if err := r.db.WithContext(ctx).Save(jobToModel(j)).Error; err != nil {
		return errx.ErrUnavailable.WithData("job_id", j.ID).WithCause(err)
	}
	return nil
}

// ClaimDue 行级锁认领：SKIP LOCKED 让并发工人互不阻塞也互不重复，
// 锁内把状态置为 Processing 并记录认领时间，事务提交后认领即持有。
// 租约超时的 Processing 行一并回收，兜底认领后崩溃的工人。
func (r *JobRepo) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*job.Job, error) {
	var ms []model.Job
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("(status = ? AND due_at <= ?) OR (status = ? AND claimed_at <= ?)",
			string(job.StatusPending), now, string(job.StatusProcessing), now.Add(-lease)).
		Order("due_at, id").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	if len(ms) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(ms))
	for i := range ms {
		ids = append(ids, ms[i].Id)
	}
	err = r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":     string(job.StatusProcessing),
			"claimed_at": now,
		}).Error
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}

	out := make([]*job.Job, 0, len(ms))
	for i := range ms {
		t := jobToDomain(&ms[i])
		t.Claim(now)
		out = append(out, t)
	}
	return out, nil
}

func (r *JobRepo) ListByVillage(ctx context.Context, villageID int64, types ...job.TaskType) ([]*job.Job, error) {
	q := r.db.WithContext(ctx).Where("village_id = ?", villageID)
	if len(types) > 0 {
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, string(t))
		}
		q = q.Where("type IN ?", names)
	}
	var ms []model.Job
	if err := q.Order("due_at").Find(&ms).Error; err != nil {
		return nil, errx.ErrUnavailable.WithData("village_id", villageID).WithCause(err)
	}
	out := make([]*job.Job, 0, len(ms))
	for i := range ms {
		out = append(out, jobToDomain(&ms[i]))
	}
	return out, nil
}
