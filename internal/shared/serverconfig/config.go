package serverconfig

import (
	"AgeOfTribes/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

func Load() {
	config.Load(defaultConfigRelPath, &Conf)
	if Conf.Game.Speed <= 0 {
		Conf.Game.Speed = 1
	}
	if Conf.Game.MapSize <= 0 {
		Conf.Game.MapSize = 100
	}
}
