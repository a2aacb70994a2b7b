package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/mysql/model"
	"AgeOfTribes/modules/kit/errx"
)

type VillageRepo struct {
	db *gorm.DB
}

func NewVillageRepo(db *gorm.DB) *VillageRepo {
	return &VillageRepo{db: db}
}

func (r *VillageRepo) Get(ctx context.Context, id int64) (*game.Village, error) {
	var m model.Village
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		return villageToDomain(&m)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, game.ErrVillageNotFound
	default:
		//  纯技术错误（连接超时等），是无法转换的技术错误，保持原样或包装返回给上级
		return nil, errx.ErrUnavailable.WithData("village_id", id).WithCause(err)
	}
}

func (r *VillageRepo) Save(ctx context.Context, v *game.Village) error {
	m, err := villageToModel(v)
	if err != nil {
		return errx.ErrInternal.WithData("village_id", v.ID).WithCause(err)
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return errx.ErrUnavailable.WithData("village_id", v.ID).WithCause(err)
	}
	return nil
}
