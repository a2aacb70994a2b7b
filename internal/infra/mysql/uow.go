package mysql

import (
	"context"

	"gorm.io/gorm"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/modules/kit/errx"
)

// Provider 实现 app.UnitOfWorkProvider，每次 Begin 开一个数据库事务。
type Provider struct {
	db *gorm.DB
}

func NewProvider(db *gorm.DB) *Provider {
	return &Provider{db: db}
}

func (p *Provider) Begin(ctx context.Context) (app.UnitOfWork, error) {
	tx := p.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, errx.ErrUnavailable.WithCause(tx.Error)
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx   *gorm.DB
	done bool
}

func (u *unitOfWork) Players() app.PlayerRepo   { return NewPlayerRepo(u.tx) }
func (u *unitOfWork) Villages() app.VillageRepo { return NewVillageRepo(u.tx) }
func (u *unitOfWork) Armies() app.ArmyRepo      { return NewArmyRepo(u.tx) }
func (u *unitOfWork) Heroes() app.HeroRepo      { return NewHeroRepo(u.tx) }
func (u *unitOfWork) Jobs() app.JobRepo         { return NewJobRepo(u.tx) }

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Commit().Error; err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

// Rollback 在 Commit 之后调用是空操作，便于统一 defer。
func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback().Error; err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}
