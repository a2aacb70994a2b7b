package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/mysql/model"
	"AgeOfTribes/modules/kit/errx"
)

type ArmyRepo struct {
	db *gorm.DB
}

func NewArmyRepo(db *gorm.DB) *ArmyRepo {
	return &ArmyRepo{db: db}
}

func (r *ArmyRepo) Get(ctx context.Context, id int64) (*game.Army, error) {
	var m model.Army
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		return armyToDomain(&m)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, game.ErrArmyNotFound
	default:
		//  纯技术错误（连接超时等），是无法转换的技术错误，保持原样或包装返回给上级
		return nil, errx.ErrUnavailable.WithData("army_id", id).WithCause(err)
	}
}

func (r *ArmyRepo) HomeArmy(ctx context.Context, villageID int64) (*game.Army, error) {
	var m model.Army
	err := r.db.WithContext(ctx).
		Where("village_id = ? AND location IS NULL AND transit = 0", villageID).
		First(&m).Error
	switch {
	case err == nil:
		return armyToDomain(&m)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, game.ErrArmyNotFound
	default:
		return nil, errx.ErrUnavailable.WithData("village_id", villageID).WithCause(err)
	}
}

// Garrison 本村留守军加外来驻军，行军途中的不算。
func (r *ArmyRepo) Garrison(ctx context.Context, villageID int64) ([]*game.Army, error) {
	var ms []model.Army
	err := r.db.WithContext(ctx).
		Where("transit = 0 AND (location = ? OR (location IS NULL AND village_id = ?))", villageID, villageID).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("village_id", villageID).WithCause(err)
	}
	out := make([]*game.Army, 0, len(ms))
	for i := range ms {
		a, err := armyToDomain(&ms[i])
		if err != nil {
			return nil, errx.ErrInternal.WithData("army_id", ms[i].Id).WithCause(err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *ArmyRepo) Save(ctx context.Context, a *game.Army) error {
	m, err := armyToModel(a)
	if err != nil {
		return errx.ErrInternal.WithData("army_id", a.ID).WithCause(err)
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return errx.ErrUnavailable.WithData("army_id", a.ID).WithCause(err)
	}
	return nil
}

func (r *ArmyRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Army{}).Error; err != nil {
		return errx.ErrUnavailable.WithData("army_id", id).WithCause(err)
	}
	return nil
}
