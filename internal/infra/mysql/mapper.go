// Package mysql 提供基于 gorm 的仓库与事务工作单元。
// 复合字段（建筑槽位、兵种向量、随军英雄）以 JSON 列持久化。
package mysql

import (
	"encoding/json"

	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/infra/mysql/model"
	"AgeOfTribes/internal/job"
)

func playerToDomain(m *model.Player) *game.Player {
	return &game.Player{
		ID:        m.Id,
		Name:      m.Name,
		Tribe:     game.Tribe(m.Tribe),
		Gold:      m.Gold,
		CreatedAt: m.CreatedAt,
	}
}

func playerToModel(p *game.Player) *model.Player {
	return &model.Player{
		Id:        p.ID,
		Name:      p.Name,
		Tribe:     uint8(p.Tribe),
		Gold:      p.Gold,
		CreatedAt: p.CreatedAt,
	}
}

func villageToDomain(m *model.Village) (*game.Village, error) {
	v := &game.Village{
		ID:            m.Id,
		PlayerID:      m.PlayerId,
		Name:          m.Name,
		Tribe:         game.Tribe(m.Tribe),
		Position:      game.Position{X: int(m.X), Y: int(m.Y)},
		Stocks:        game.Resources{Lumber: m.Lumber, Clay: m.Clay, Iron: m.Iron, Crop: m.Crop},
		Population:    m.Population,
		Loyalty:       m.Loyalty,
		Merchants:     m.Merchants,
		BusyMerchants: m.BusyMerchants,
		StocksAt:      m.StocksAt,
	}
	if m.Buildings != "" {
		if err := json.Unmarshal([]byte(m.Buildings), &v.Buildings); err != nil {
			return nil, err
		}
	}
	if m.Research != "" {
		if err := json.Unmarshal([]byte(m.Research), &v.Research); err != nil {
			return nil, err
		}
	}
	if m.OasisBonus != "" {
		if err := json.Unmarshal([]byte(m.OasisBonus), &v.OasisBonus); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func villageToModel(v *game.Village) (*model.Village, error) {
	buildings, err := json.Marshal(v.Buildings)
	if err != nil {
		return nil, err
	}
	research, err := json.Marshal(v.Research)
	if err != nil {
		return nil, err
	}
	oasis, err := json.Marshal(v.OasisBonus)
	if err != nil {
		return nil, err
	}
	return &model.Village{
		Id:            v.ID,
		PlayerId:      v.PlayerID,
		Name:          v.Name,
		Tribe:         uint8(v.Tribe),
		X:             int32(v.Position.X),
		Y:             int32(v.Position.Y),
		Lumber:        v.Stocks.Lumber,
		Clay:          v.Stocks.Clay,
		Iron:          v.Stocks.Iron,
		Crop:          v.Stocks.Crop,
		Buildings:     string(buildings),
		Population:    v.Population,
		Loyalty:       v.Loyalty,
		Research:      string(research),
		OasisBonus:    string(oasis),
		Merchants:     v.Merchants,
		BusyMerchants: v.BusyMerchants,
		StocksAt:      v.StocksAt,
	}, nil
}

func armyToDomain(m *model.Army) (*game.Army, error) {
	a := &game.Army{
		ID:        m.Id,
		PlayerID:  m.PlayerId,
		Tribe:     game.Tribe(m.Tribe),
		VillageID: m.VillageId,
		Location:  m.Location,
		Transit:   m.Transit,
	}
	if m.Units != "" {
		if err := json.Unmarshal([]byte(m.Units), &a.Units); err != nil {
			return nil, err
		}
	}
	if m.Smithy != "" {
		if err := json.Unmarshal([]byte(m.Smithy), &a.Smithy); err != nil {
			return nil, err
		}
	}
	if m.Hero != "" {
		if err := json.Unmarshal([]byte(m.Hero), &a.Hero); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func armyToModel(a *game.Army) (*model.Army, error) {
	units, err := json.Marshal(a.Units)
	if err != nil {
		return nil, err
	}
	smithy, err := json.Marshal(a.Smithy)
	if err != nil {
		return nil, err
	}
	var hero string
	if a.Hero != nil {
		raw, err := json.Marshal(a.Hero)
		if err != nil {
			return nil, err
		}
		hero = string(raw)
	}
	return &model.Army{
		Id:        a.ID,
		PlayerId:  a.PlayerID,
		Tribe:     uint8(a.Tribe),
		VillageId: a.VillageID,
		Location:  a.Location,
		Transit:   a.Transit,
		Units:     string(units),
		Smithy:    string(smithy),
		Hero:      hero,
	}, nil
}

func heroToDomain(m *model.Hero) *game.Hero {
	return &game.Hero{
		ID:            m.Id,
		PlayerID:      m.PlayerId,
		VillageID:     m.VillageId,
		Level:         m.Level,
		Experience:    m.Experience,
		Health:        m.Health,
		AttackPoints:  m.AttackPoints,
		DefensePoints: m.DefensePoints,
	}
}

func heroToModel(h *game.Hero) *model.Hero {
	return &model.Hero{
		Id:            h.ID,
		PlayerId:      h.PlayerID,
		VillageId:     h.VillageID,
		Level:         h.Level,
		Experience:    h.Experience,
		Health:        h.Health,
		AttackPoints:  h.AttackPoints,
		DefensePoints: h.DefensePoints,
	}
}

func jobToDomain(m *model.Job) *job.Job {
	return &job.Job{
		ID:         m.Id,
		PlayerID:   m.PlayerId,
		VillageID:  m.VillageId,
		Type:       job.TaskType(m.Type),
		Payload:    json.RawMessage(m.Payload),
		Status:     job.Status(m.Status),
		DueAt:      m.DueAt,
		ClaimedAt:  m.ClaimedAt,
		Attempts:   m.Attempts,
		FailReason: m.FailReason,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func jobToModel(j *job.Job) *model.Job {
	return &model.Job{
		Id:         j.ID,
		PlayerId:   j.PlayerID,
		VillageId:  j.VillageID,
		Type:       string(j.Type),
		Payload:    string(j.Payload),
		Status:     string(j.Status),
		DueAt:      j.DueAt,
		ClaimedAt:  j.ClaimedAt,
		Attempts:   j.Attempts,
		FailReason: j.FailReason,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}
