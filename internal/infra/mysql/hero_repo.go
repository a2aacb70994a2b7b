package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/mysql/model"
	"AgeOfTribes/modules/kit/errx"
)

type HeroRepo struct {
	db *gorm.DB
}

func NewHeroRepo(db *gorm.DB) *HeroRepo {
	return &HeroRepo{db: db}
}

func (r *HeroRepo) GetByPlayer(ctx context.Context, playerID int64) (*game.Hero, error) {
	var m model.Hero
	err := r.db.WithContext(ctx).Where("player_id = ?", playerID).First(&m).Error
	switch {
	case err == nil:
		return heroToDomain(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, game.ErrHeroNotFound
	default:
		return nil, errx.ErrUnavailable.WithData("player_id", playerID).WithCause(err)
	}
}

func (r *HeroRepo) Save(ctx context.Context, h *game.Hero) error {
	if err := r.db.WithContext(ctx).Save(heroToModel(h)).Error; err != nil {
		return errx.ErrUnavailable.WithData("hero_id", h.ID).WithCause(err)
	}
	return nil
}
