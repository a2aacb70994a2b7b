package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/mysql/model"
	"AgeOfTribes/modules/kit/errx"
)

type PlayerRepo struct {
	db *gorm.DB
}

func NewPlayerRepo(db *gorm.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func (r *PlayerRepo) Get(ctx context.Context, id int64) (*game.Player, error) {
	var m model.Player
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		return playerToDomain(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 技术错误 → 业务错误
		return nil, game.ErrPlayerNotFound
	default:
		//  纯技术错误（连接超时等），是无法转换的技术错误，保持原样或包装返回给上级
		return nil, errx.ErrUnavailable.WithData("player_id", id).WithCause(err)
	}
}
